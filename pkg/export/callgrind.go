// Package export writes profiler artifacts from the build graph: the
// callgrind format consumed by kcachegrind and friends, and the Chrome
// trace-event timeline format. Both read through the info views so
// recursion netting and path normalization apply.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/makegrind/makegrind/pkg/graph"
)

func micros(d time.Duration) int64 {
	return d.Microseconds()
}

// Callgrind writes a callgrind profile: one file/function/cost record per
// target with a known source file, with wall time and, when available,
// recipe time in microseconds, plus a call record per dependency.
func Callgrind(bg *graph.BuildGraph, w io.Writer) error {
	entry, err := bg.Entry()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "# callgrind format\n")
	fmt.Fprintf(w, "version: 1\n")
	fmt.Fprintf(w, "creator: %s\n", entry.Creator())
	fmt.Fprintf(w, "cmd: %s\n", strings.Join(entry.Argv(), " "))
	fmt.Fprintf(w, "desc: Node: Targets\n")
	fmt.Fprintf(w, "positions: line\n")
	fmt.Fprintf(w, "event: Wt : Wall Time\n")
	fmt.Fprintf(w, "event: Rt : Recipe Time\n")
	fmt.Fprintf(w, "events: Wt Rt\n\n")

	for _, info := range bg.TargetInfos() {
		if info.File() == "" {
			continue
		}

		fmt.Fprintf(w, "\nob=%s\n", info.Directory())
		fmt.Fprintf(w, "fl=%s\n", info.File())
		fmt.Fprintf(w, "fn=%s\n", info.Name())

		cost := fmt.Sprintf("%d %d", info.Line(), micros(info.Elapsed()))
		if !info.RecipeStart().IsZero() {
			cost = fmt.Sprintf("%s %d", cost, micros(info.ElapsedRecipe()))
		}
		fmt.Fprintf(w, "%s\n", cost)

		for _, dep := range info.Successors() {
			if dep.File() == "" {
				continue
			}
			fmt.Fprintf(w, "cob=%s\n", dep.Directory())
			fmt.Fprintf(w, "cfi=%s\n", dep.File())
			fmt.Fprintf(w, "cfn=%s\n", dep.Name())
			fmt.Fprintf(w, "calls=1 %d\n", dep.Line())
			fmt.Fprintf(w, "%d %d\n", info.Line(), micros(dep.Elapsed()))
		}
	}
	return nil
}
