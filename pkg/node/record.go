package node

// ParentRef identifies the target in a parent process whose recipe spawned
// a nested invocation.
type ParentRef struct {
	Pid    int    `json:"pid"`
	Target string `json:"target"`
}

// TargetRecord is the wire form of one target inside a process record.
// Timestamps are epoch seconds as emitted by remake's profile output;
// pointer fields distinguish "absent" from zero.
type TargetRecord struct {
	Name    string   `json:"name"`
	File    string   `json:"file,omitempty"`
	Line    int      `json:"line,omitempty"`
	Start   *float64 `json:"start,omitempty"`
	End     *float64 `json:"end,omitempty"`
	Recipe  *float64 `json:"recipe,omitempty"`
	Depends []string `json:"depends,omitempty"`
}

// ProcessRecord is the wire form of one build-tool invocation. A trace is
// either a flat list of these (each carrying a Parent back-reference) or a
// single root record with recursive invocations nested under Children.
type ProcessRecord struct {
	Pid       int             `json:"pid"`
	Directory string          `json:"directory"`
	Start     *float64        `json:"start,omitempty"`
	End       *float64        `json:"end,omitempty"`
	Jobs      *int            `json:"jobs,omitempty"`
	Creator   string          `json:"creator,omitempty"`
	Argv      []string        `json:"argv,omitempty"`
	Entry     []string        `json:"entry,omitempty"`
	Parent    *ParentRef      `json:"parent,omitempty"`
	Targets   []TargetRecord  `json:"targets,omitempty"`
	Children  []ProcessRecord `json:"children,omitempty"`
}
