package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Seed    int64              `json:"seed"`
	Dt      float64            `json:"dt"`
	Steps   int                `json:"steps"`
	Time    float64            `json:"time"`
	Fired   map[string]int     `json:"fired"`
	Metrics map[string]float64 `json:"metrics"`
	Series  map[string]any     `json:"series"`
}

// Export gathers everything stored for a run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	data := &ExportData{
		ID:      meta.ID,
		Model:   meta.Model,
		Seed:    meta.Seed,
		Dt:      meta.Dt,
		Steps:   meta.Steps,
		Time:    meta.Time,
		Fired:   meta.Fired,
		Metrics: meta.Metrics,
		Series:  map[string]any{},
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	data.Series["step"] = series.Steps
	data.Series["time"] = series.Times
	for _, c := range series.Columns {
		data.Series[c] = series.Column(c)
	}
	return data, nil
}

func ExportJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
