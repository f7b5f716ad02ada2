package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"material-selector/internal/models"
)

type assessments struct {
	carbon     models.Outcome[models.CarbonAnalysis]
	cost       models.Outcome[models.CostAnalysis]
	durability models.Outcome[models.DurabilityAnalysis]
}

// assess runs the carbon, cost and durability agents. Each result slot is
// written by exactly one goroutine and read only after Wait.
func (o *Orchestrator) assess(ctx context.Context, materials []string, location, climate string) assessments {
	var a assessments

	steps := []func(context.Context){
		func(ctx context.Context) {
			a.carbon = o.carbon.Run(ctx, materials)
			o.report("Carbon impact analysis complete")
		},
		func(ctx context.Context) {
			a.cost = o.cost.Run(ctx, materials, location)
			o.report("Cost analysis complete")
		},
		func(ctx context.Context) {
			a.durability = o.durability.Run(ctx, materials, climate)
			o.report("Durability analysis complete")
		},
	}

	if !o.cfg.ParallelAssessments {
		for _, step := range steps {
			step(ctx)
		}
		return a
	}

	// agents never return errors, so the group is only a bounded join
	var g errgroup.Group
	g.SetLimit(o.cfg.MaxConcurrency)
	for _, step := range steps {
		g.Go(func() error {
			step(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return a
}
