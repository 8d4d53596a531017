// Package report turns the build graph into the structured reports the
// CLI and web layers expose: build summary, slowest recipes, critical
// path with children, and per-directory rollups. Every report is
// generated once and cached until forced.
package report

import (
	"sort"
	"time"

	"github.com/makegrind/makegrind/pkg/graph"
)

// Report is the contract every concrete report satisfies.
type Report interface {
	// Key is the stable machine identifier of the report type.
	Key() string
	// Name is the human label.
	Name() string
	// Generate returns the report-specific fields, reusing the cached
	// result unless force is set.
	Generate(force bool) (Fields, error)
	// Date is the generation reference date, the build's start time.
	Date() time.Time
}

// Render produces the full serializable structure: key, name and date
// header followed by the report's own fields.
func Render(r Report) (Fields, error) {
	data, err := r.Generate(false)
	if err != nil {
		return nil, err
	}
	out := Fields{
		{Key: "key", Value: r.Key()},
		{Key: "name", Value: r.Name()},
		{Key: "date", Value: r.Date().Format(time.RFC3339)},
	}
	return append(out, data...), nil
}

// base carries what every report shares: the graph, display precision and
// the cached generated fields.
type base struct {
	graph     *graph.BuildGraph
	precision int
	data      Fields
}

func newBase(bg *graph.BuildGraph) base {
	return base{graph: bg, precision: DefaultPrecision}
}

func (b *base) duration(d time.Duration) Duration {
	return Duration{Value: d, Precision: b.precision}
}

func (b *base) percent(num, den time.Duration) Percent {
	return Percent{Numerator: num, Denominator: den, Precision: b.precision}
}

func (b *base) ratio(num, den time.Duration) float64 {
	if den == 0 {
		return 0
	}
	return roundTo(float64(num)/float64(den), b.precision)
}

// Date returns the build's start time, zero when the trace has no entry
// process.
func (b *base) Date() time.Time {
	entry, err := b.graph.Entry()
	if err != nil {
		return time.Time{}
	}
	return entry.Start()
}

// targetReport renders one target as the shared per-target record. The
// percent column relates pct against total.
func (b *base) targetReport(info *graph.TargetInfo, total, pct time.Duration) Fields {
	return Fields{
		{Key: "target", Value: info.Name()},
		{Key: "total", Value: b.duration(info.Elapsed())},
		{Key: "recipe", Value: b.duration(info.ElapsedRecipe())},
		{Key: "percent", Value: b.percent(pct, total)},
		{Key: "dir", Value: info.Directory()},
		{Key: "pid", Value: info.Pid()},
		{Key: "file", Value: info.File()},
		{Key: "line", Value: info.Line()},
		{Key: "recursive", Value: info.Recursive()},
	}
}

// childrenReport renders the direct successors of a target, sorted by
// elapsed descending and capped at maxChildren (0 means uncapped). Each
// child carries only its name, total and share of the parent's elapsed.
func (b *base) childrenReport(info *graph.TargetInfo, maxChildren int) Fields {
	children := info.Successors()
	sort.SliceStable(children, func(a, c int) bool {
		return children[a].Elapsed() > children[c].Elapsed()
	})

	out := Fields{{Key: "count", Value: len(children)}}
	if maxChildren > 0 && len(children) > maxChildren {
		children = children[:maxChildren]
	}

	total := info.Elapsed()
	rows := make([]Fields, 0, len(children))
	for _, child := range children {
		rows = append(rows, Fields{
			{Key: "target", Value: child.Name()},
			{Key: "total", Value: b.duration(child.Elapsed())},
			{Key: "percent", Value: b.percent(child.Elapsed(), total)},
		})
	}
	out = append(out, Field{Key: "targets", Value: rows})
	return out
}
