package graph

import (
	"fmt"
	"strings"
)

// EntryPointNotFoundError reports that no structurally valid node exists
// in topological order, which happens with empty or malformed traces.
type EntryPointNotFoundError struct {
	Graph string
}

func (e *EntryPointNotFoundError) Error() string {
	return fmt.Sprintf("unable to find entry point in %s graph", e.Graph)
}

// IntegrityError reports a trace that cannot form a valid model: a
// dependency cycle, or an edge referencing an unreachable record.
type IntegrityError struct {
	Graph  string
	Cycles [][]string
	Detail string
}

func (e *IntegrityError) Error() string {
	if len(e.Cycles) > 0 {
		parts := make([]string, 0, len(e.Cycles))
		for _, c := range e.Cycles {
			parts = append(parts, strings.Join(c, " -> "))
		}
		return fmt.Sprintf("%s graph contains dependency cycles: %s", e.Graph, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s graph integrity violation: %s", e.Graph, e.Detail)
}
