package report

import (
	"sort"
	"time"

	"github.com/makegrind/makegrind/pkg/graph"
)

// DefaultMaxEntries caps list-style reports when the caller does not ask
// for a specific size.
const DefaultMaxEntries = 10

// TopRecipes reports the non-recursive targets with the greatest recipe
// time.
type TopRecipes struct {
	base
	maxEntries int
}

// NewTopRecipes creates the report; maxEntries <= 0 selects the default.
func NewTopRecipes(bg *graph.BuildGraph, maxEntries int) *TopRecipes {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &TopRecipes{base: newBase(bg), maxEntries: maxEntries}
}

func (r *TopRecipes) Key() string { return "remake.top.recipes" }
func (r *TopRecipes) Name() string { return "Top Recipes" }

func (r *TopRecipes) Generate(force bool) (Fields, error) {
	if r.data != nil && !force {
		return r.data, nil
	}
	if _, err := r.graph.Entry(); err != nil {
		return nil, err
	}

	elapsed := r.graph.Elapsed()

	var targets []*graph.TargetInfo
	for _, info := range r.graph.TargetInfos() {
		if info.Recursive() {
			continue
		}
		targets = append(targets, info)
	}
	sort.SliceStable(targets, func(a, b int) bool {
		return targets[a].ElapsedRecipe() > targets[b].ElapsedRecipe()
	})

	var totalRecipe time.Duration
	for _, t := range targets {
		totalRecipe += t.ElapsedRecipe()
	}

	data := Fields{
		{Key: "total", Value: r.duration(elapsed)},
		{Key: "recipe", Value: r.duration(totalRecipe)},
	}

	if jobs := r.graph.Jobs(); jobs.Declared {
		parallel := Fields{}
		if jobs.Unlimited {
			parallel = append(parallel, Field{Key: "jobs", Value: "unlimited"})
		} else {
			parallel = append(parallel, Field{Key: "jobs", Value: jobs.Jobs})
		}
		parallel = append(parallel, Field{Key: "ratio", Value: r.ratio(totalRecipe, elapsed)})
		data = append(data, Field{Key: "parallel", Value: parallel})
	}

	if len(targets) > r.maxEntries {
		targets = targets[:r.maxEntries]
	}
	rows := make([]Fields, 0, len(targets))
	for _, t := range targets {
		rows = append(rows, r.targetReport(t, elapsed, t.ElapsedRecipe()))
	}
	data = append(data, Field{Key: "targets", Value: rows})

	r.data = data
	return r.data, nil
}
