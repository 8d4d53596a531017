// Package query resolves targets by name, makefile path, or process id,
// and stitches critical paths through explicit waypoints.
package query

import (
	"fmt"
	"strings"
)

// NoFilterCriteriaError reports a lookup invoked with no filter at all.
// This is a caller programming error, not a data error.
type NoFilterCriteriaError struct{}

func (e *NoFilterCriteriaError) Error() string {
	return "no filtering criteria"
}

// TargetNotFoundError reports a lookup that matched zero targets. The
// message names every filter that was attempted.
type TargetNotFoundError struct {
	Target   string
	Makefile string
	Pid      int
}

func (e *TargetNotFoundError) Error() string {
	msg := []string{"no targets"}
	if e.Target != "" {
		msg = append(msg, fmt.Sprintf("named %q", e.Target))
	}
	if e.Makefile != "" {
		msg = append(msg, fmt.Sprintf("in file %q", e.Makefile))
	}
	if e.Pid != 0 {
		msg = append(msg, fmt.Sprintf("with pid %d", e.Pid))
	}
	return strings.Join(msg, " ")
}

// DependencyChainNotFoundError reports that waypoint stitching found no
// simple path between two requested targets.
type DependencyChainNotFoundError struct {
	From string
	To   string
}

func (e *DependencyChainNotFoundError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("unable to find dependency chain to %s", e.To)
	}
	return fmt.Sprintf("unable to find dependency chain from %s to %s", e.From, e.To)
}
