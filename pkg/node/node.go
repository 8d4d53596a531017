// Package node holds the data model for a build trace: one node per
// build-tool invocation (ProcessNode) and one per evaluated target
// (TargetNode). Derived timing values are memoized per node and thrown
// away whenever an attribute is written, so a corrected timestamp can
// never leak a stale duration.
package node

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"
)

// ProcessKey returns the graph key for a process id.
func ProcessKey(pid int) string {
	return strconv.Itoa(pid)
}

// TargetKey returns the composite graph key for a target. Keys are derived
// from identifying attributes only, which keeps repeated ingestion of the
// same record idempotent.
func TargetKey(pid int, name string) string {
	return fmt.Sprintf("%d:%s", pid, name)
}

// Parallelism describes the declared -j setting of a process.
type Parallelism struct {
	Declared  bool
	Unlimited bool
	Jobs      int
}

func timeFromEpoch(ts *float64) time.Time {
	if ts == nil {
		return time.Time{}
	}
	sec, frac := math.Modf(*ts)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// processDerived caches timing values computed from the raw epoch fields.
type processDerived struct {
	ok         bool
	start, end time.Time
	elapsed    time.Duration
}

// ProcessNode is one invocation of the build tool. Required for validity:
// pid and working directory. Everything else degrades to zero values.
type ProcessNode struct {
	pid       int
	directory string
	start     *float64
	end       *float64
	jobs      *int
	creator   string
	argv      []string
	entry     []string
	parent    *ParentRef

	derived processDerived
}

// NewProcessNode creates an empty node keyed by pid.
func NewProcessNode(pid int) *ProcessNode {
	return &ProcessNode{pid: pid}
}

// Update merges a trace record into the node. Fields absent from the
// record leave the current value untouched, so out-of-order partial
// records converge on the same node state.
func (n *ProcessNode) Update(rec ProcessRecord) {
	n.invalidate()
	if rec.Directory != "" {
		n.directory = rec.Directory
	}
	if rec.Start != nil {
		n.start = rec.Start
	}
	if rec.End != nil {
		n.end = rec.End
	}
	if rec.Jobs != nil {
		n.jobs = rec.Jobs
	}
	if rec.Creator != "" {
		n.creator = rec.Creator
	}
	if len(rec.Argv) > 0 {
		n.argv = rec.Argv
	}
	if len(rec.Entry) > 0 {
		n.entry = rec.Entry
	}
	if rec.Parent != nil {
		n.parent = rec.Parent
	}
}

func (n *ProcessNode) invalidate() {
	n.derived = processDerived{}
}

func (n *ProcessNode) compute() {
	if n.derived.ok {
		return
	}
	n.derived.start = timeFromEpoch(n.start)
	n.derived.end = timeFromEpoch(n.end)
	if !n.derived.start.IsZero() && !n.derived.end.IsZero() {
		n.derived.elapsed = n.derived.end.Sub(n.derived.start)
	}
	n.derived.ok = true
}

// Key returns the graph key derived from the pid.
func (n *ProcessNode) Key() string { return ProcessKey(n.pid) }

// Valid reports whether the required attributes are present.
func (n *ProcessNode) Valid() bool { return n.pid != 0 && n.directory != "" }

func (n *ProcessNode) Pid() int { return n.pid }
func (n *ProcessNode) Directory() string { return n.directory }
func (n *ProcessNode) Creator() string { return n.creator }
func (n *ProcessNode) Argv() []string { return n.argv }
func (n *ProcessNode) Parent() *ParentRef { return n.parent }

// Start returns the start timestamp, zero time if the trace had none.
func (n *ProcessNode) Start() time.Time {
	n.compute()
	return n.derived.start
}

// End returns the end timestamp, zero time if the trace had none.
func (n *ProcessNode) End() time.Time {
	n.compute()
	return n.derived.end
}

// Elapsed returns end minus start, or zero when either is unknown.
func (n *ProcessNode) Elapsed() time.Duration {
	n.compute()
	return n.derived.elapsed
}

// EntryNames returns the names of the entry targets of this process.
func (n *ProcessNode) EntryNames() []string { return n.entry }

// EntryKeys returns the target-graph keys of the entry targets.
func (n *ProcessNode) EntryKeys() []string {
	keys := make([]string, 0, len(n.entry))
	for _, name := range n.entry {
		keys = append(keys, TargetKey(n.pid, name))
	}
	return keys
}

// Jobs returns the declared parallelism: absent (-1 in the trace),
// unlimited (0), or a finite job count.
func (n *ProcessNode) Jobs() Parallelism {
	if n.jobs == nil || *n.jobs < 0 {
		return Parallelism{}
	}
	if *n.jobs == 0 {
		return Parallelism{Declared: true, Unlimited: true}
	}
	return Parallelism{Declared: true, Jobs: *n.jobs}
}

// targetDerived caches timing values for a target node.
type targetDerived struct {
	ok                     bool
	start, end, recipe     time.Time
	elapsed, elapsedRecipe time.Duration
}

// TargetNode is one named build goal evaluated within a process. Required
// for validity: name and pid. A target with no timestamps is incomplete
// and reports zero durations.
type TargetNode struct {
	pid       int
	name      string
	directory string
	file      string
	line      int
	start     *float64
	end       *float64
	recipe    *float64
	recursive bool

	derived targetDerived
}

// NewTargetNode creates an empty node for pid:name.
func NewTargetNode(pid int, name string) *TargetNode {
	return &TargetNode{pid: pid, name: name}
}

// Update merges a trace record into the node. The dependency list is not
// stored here; the target graph turns it into edges.
func (n *TargetNode) Update(rec TargetRecord, directory string) {
	n.invalidate()
	if directory != "" {
		n.directory = directory
	}
	if rec.File != "" {
		n.file = rec.File
	}
	if rec.Line != 0 {
		n.line = rec.Line
	}
	if rec.Start != nil {
		n.start = rec.Start
	}
	if rec.End != nil {
		n.end = rec.End
	}
	if rec.Recipe != nil {
		n.recipe = rec.Recipe
	}
}

func (n *TargetNode) invalidate() {
	n.derived = targetDerived{}
}

func (n *TargetNode) compute() {
	if n.derived.ok {
		return
	}
	n.derived.start = timeFromEpoch(n.start)
	n.derived.end = timeFromEpoch(n.end)
	n.derived.recipe = timeFromEpoch(n.recipe)
	if !n.derived.start.IsZero() && !n.derived.end.IsZero() {
		n.derived.elapsed = n.derived.end.Sub(n.derived.start)
	}
	if !n.derived.recipe.IsZero() && !n.derived.end.IsZero() {
		n.derived.elapsedRecipe = n.derived.end.Sub(n.derived.recipe)
	}
	n.derived.ok = true
}

// Key returns the composite pid:name graph key.
func (n *TargetNode) Key() string { return TargetKey(n.pid, n.name) }

// Valid reports whether the required attributes are present.
func (n *TargetNode) Valid() bool { return n.pid != 0 && n.name != "" }

func (n *TargetNode) Pid() int { return n.pid }
func (n *TargetNode) Name() string { return n.name }
func (n *TargetNode) Directory() string { return n.directory }
func (n *TargetNode) File() string { return n.file }
func (n *TargetNode) Line() int { return n.line }
func (n *TargetNode) Recursive() bool { return n.recursive }

// SetRecursive flags the target as a recursive invocation of a child
// process. Its recipe time is then attributed to the child's targets.
func (n *TargetNode) SetRecursive() {
	n.invalidate()
	n.recursive = true
}

// Path returns the makefile path of the target, empty when the trace did
// not record a source file.
func (n *TargetNode) Path() string {
	if n.file == "" {
		return ""
	}
	if filepath.IsAbs(n.file) || n.directory == "" {
		return n.file
	}
	return filepath.Join(n.directory, n.file)
}

// Start returns the start timestamp, zero time if the trace had none.
func (n *TargetNode) Start() time.Time {
	n.compute()
	return n.derived.start
}

// End returns the end timestamp, zero time if the trace had none.
func (n *TargetNode) End() time.Time {
	n.compute()
	return n.derived.end
}

// RecipeStart returns the moment the target's recipe began executing,
// zero time when the target never ran a recipe.
func (n *TargetNode) RecipeStart() time.Time {
	n.compute()
	return n.derived.recipe
}

// Elapsed returns end minus start, or zero when either is unknown.
func (n *TargetNode) Elapsed() time.Duration {
	n.compute()
	return n.derived.elapsed
}

// ElapsedRecipe returns end minus recipe start, or zero when either is
// unknown. This is the raw value; recursion netting happens in the info
// view layer.
func (n *TargetNode) ElapsedRecipe() time.Duration {
	n.compute()
	return n.derived.elapsedRecipe
}
