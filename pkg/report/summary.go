package report

import (
	"github.com/makegrind/makegrind/pkg/graph"
)

// Summary reports whole-build totals: elapsed and recipe time,
// parallelism ratio, process/target/dependency counts and the entry
// target names.
type Summary struct {
	base
}

// NewSummary creates a summary report over the graph.
func NewSummary(bg *graph.BuildGraph) *Summary {
	return &Summary{base: newBase(bg)}
}

func (r *Summary) Key() string { return "remake.summary.build" }
func (r *Summary) Name() string { return "Summary" }

func (r *Summary) Generate(force bool) (Fields, error) {
	if r.data != nil && !force {
		return r.data, nil
	}

	entry, err := r.graph.Entry()
	if err != nil {
		return nil, err
	}

	elapsed := r.graph.Elapsed()
	recipe := r.graph.RecipeElapsed()

	data := Fields{
		{Key: "pid", Value: entry.Pid()},
		{Key: "total", Value: r.duration(elapsed)},
		{Key: "recipe", Value: r.duration(recipe)},
	}

	if jobs := r.graph.Jobs(); jobs.Declared {
		parallel := Fields{}
		if jobs.Unlimited {
			parallel = append(parallel, Field{Key: "jobs", Value: "unlimited"})
		} else {
			parallel = append(parallel, Field{Key: "jobs", Value: jobs.Jobs})
		}
		parallel = append(parallel, Field{Key: "ratio", Value: r.ratio(recipe, elapsed)})
		data = append(data, Field{Key: "parallel", Value: parallel})
	}

	data = append(data,
		Field{Key: "directory", Value: entry.Directory()},
		Field{Key: "submake", Value: r.graph.Processes()},
		Field{Key: "targets", Value: r.graph.Targets().Targets()},
		Field{Key: "dependencies", Value: r.graph.Targets().Dependencies()},
		Field{Key: "entry", Value: entry.EntryNames()},
	)

	r.data = data
	return r.data, nil
}
