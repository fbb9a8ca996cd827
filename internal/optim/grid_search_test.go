package optim

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/config"
	"github.com/san-kum/fibersim/internal/experiment"
)

func kinesinConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Model = "kinesin"
	cfg.Engine.Steps = 5
	cfg.Engine.RecordStride = 5
	cfg.Kinesin.BindTubulinRate = 0
	return cfg
}

func TestSearchMotorCount(t *testing.T) {
	reg := experiment.NewRegistry()
	build := ConfigBuilder(reg, kinesinConfig())
	tests := []struct {
		name   string
		search *GridSearch
		want   float64
	}{
		{"minimize", NewGridSearch([]string{"kinesin.n_motors"}, [][]float64{{1, 3, 2}}), 1},
		{"maximize", NewGridSearch([]string{"kinesin.n_motors"}, [][]float64{{1, 3, 2}}).Maximize(), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.search.Search(context.Background(), build, "free_motors")
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Points) != 3 {
				t.Errorf("%d points", len(res.Points))
			}
			if got := res.Best.Params["kinesin.n_motors"]; got != tt.want {
				t.Errorf("best n_motors = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestSearchGrid(t *testing.T) {
	reg := experiment.NewRegistry()
	g := NewGridSearch(
		[]string{"kinesin.n_motors", "engine.steps"},
		[][]float64{{1, 2}, {2, 4, 6}},
	)
	res, err := g.Search(context.Background(), ConfigBuilder(reg, kinesinConfig()), "free_motors")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) != 6 {
		t.Errorf("%d points, want 6", len(res.Points))
	}
}

func TestSearchErrors(t *testing.T) {
	reg := experiment.NewRegistry()
	build := ConfigBuilder(reg, kinesinConfig())

	_, err := NewGridSearch([]string{"kinesin.n_motors"}, [][]float64{{1}}).Search(context.Background(), build, "no_such_metric")
	if !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("err = %v, want ErrUnknownMetric", err)
	}
	_, err = NewGridSearch([]string{"kinesin.no_such_key"}, [][]float64{{1}}).Search(context.Background(), build, "free_motors")
	if !errors.Is(err, config.ErrUnknownKey) {
		t.Errorf("err = %v, want ErrUnknownKey", err)
	}
	if _, err := NewGridSearch([]string{"a", "b"}, [][]float64{{1}}).Search(context.Background(), build, "free_motors"); err == nil {
		t.Error("expected an error for mismatched ranges")
	}
}
