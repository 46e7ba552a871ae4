// Package optim searches scene settings for the values that minimize a run
// metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/san-kum/clothsim/internal/experiment"
	"github.com/san-kum/clothsim/internal/sim"
)

// Builder sets up an experiment for one combination of setting values.
type Builder func(values map[string]float64) (*experiment.Experiment, error)

// Evaluation is one grid point. Err is set when the point could not be built
// or run; such points never win.
type Evaluation struct {
	Values map[string]float64
	Metric float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every grid point for runCfg and returns the one with the
// smallest final value of metricName along with all evaluations in grid
// order.
func (g *GridSearch) Search(
	ctx context.Context,
	build Builder,
	runCfg sim.Config,
	metricName string,
) (*Evaluation, []Evaluation, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, nil, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	evals := make([]Evaluation, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, build, runCfg, metricName, &evals); err != nil {
		return nil, evals, err
	}

	var best *Evaluation
	for i := range evals {
		e := &evals[i]
		if e.Err == nil && (best == nil || e.Metric < best.Metric) {
			best = e
		}
	}
	if best == nil {
		return nil, evals, errors.New("no grid point could be evaluated")
	}
	return best, evals, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	runCfg sim.Config,
	metricName string,
	evals *[]Evaluation,
) error {
	if depth == len(g.paramNames) {
		*evals = append(*evals, evaluate(ctx, maps.Clone(current), build, runCfg, metricName))
		return ctx.Err()
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, build, runCfg, metricName, evals); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}

func evaluate(ctx context.Context, values map[string]float64, build Builder, runCfg sim.Config, metricName string) Evaluation {
	e := Evaluation{Values: values}

	exp, err := build(values)
	if err != nil {
		e.Err = err
		return e
	}
	result, err := exp.Run(ctx, runCfg)
	if err != nil {
		e.Err = err
		return e
	}

	v, ok := result.Metrics[metricName]
	if !ok {
		e.Err = fmt.Errorf("run has no metric %q", metricName)
		return e
	}
	e.Metric = v
	return e
}
