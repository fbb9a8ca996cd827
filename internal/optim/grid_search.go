// Package optim sweeps config parameters over a grid and ranks the runs by
// one metric.
package optim

import (
	"context"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/san-kum/fibersim/internal/config"
	"github.com/san-kum/fibersim/internal/experiment"
)

var ErrUnknownMetric = errors.New("optim: unknown metric")

// Point is one evaluated combination of the grid.
type Point struct {
	Params map[string]float64
	Value  float64
}

type Result struct {
	Best   Point
	Points []Point
}

// Builder sets up the experiment for one combination.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

// NewGridSearch searches every combination of ranges; params are dotted
// config keys.
func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize ranks larger metric values first.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

func (g *GridSearch) better(v, best float64) bool {
	if g.maximize {
		return v > best
	}
	return v < best
}

func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (*Result, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, errors.Errorf("optim: %d params, %d ranges", len(g.paramNames), len(g.ranges))
	}
	res := &Result{Best: Point{Value: math.Inf(1)}}
	if g.maximize {
		res.Best.Value = math.Inf(-1)
	}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	metricName string,
	res *Result,
) error {
	if depth == len(g.paramNames) {
		exp, err := build(current)
		if err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return errors.Wrapf(err, "run %v", current)
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			return errors.Wrap(ErrUnknownMetric, metricName)
		}
		klog.V(1).Infof("optim: %v -> %s = %g", current, metricName, val)

		p := Point{Params: current, Value: val}
		res.Points = append(res.Points, p)
		if res.Best.Params == nil || g.better(val, res.Best.Value) {
			res.Best = p
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, res); err != nil {
			return err
		}
	}
	return nil
}

// ConfigBuilder copies base, sets each swept key and sets the experiment
// up.
func ConfigBuilder(reg *experiment.Registry, base *config.Config) Builder {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		c := *base
		for k, v := range params {
			if err := c.Set(k, strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
				return nil, err
			}
		}
		exp, err := experiment.New(reg, &c)
		if err != nil {
			return nil, err
		}
		if err := exp.Setup(reg); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
