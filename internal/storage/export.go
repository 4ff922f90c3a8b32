package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/artdyn/internal/config"
	"github.com/san-kum/artdyn/internal/scenario"
	"github.com/san-kum/artdyn/internal/world"
)

type ExportData struct {
	Scenario   string             `json:"scenario"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Columns    []string           `json:"columns"`
	Times      []float64          `json:"times"`
	Energy     []float64          `json:"energy"`
	States     [][]float64        `json:"states"`
	Stats      world.Stats        `json:"stats"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newExportData(cfg *config.Config, result *scenario.Result) ExportData {
	return ExportData{
		Scenario:   cfg.Scenario,
		Integrator: result.Integrator,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Steps:      result.StepsTaken,
		Columns:    result.Columns,
		Times:      result.Times,
		Energy:     result.Energy,
		States:     result.States,
		Stats:      result.Stats,
		Metrics:    result.Metrics,
	}
}

// WriteJSON writes the run as indented JSON.
func WriteJSON(w io.Writer, cfg *config.Config, result *scenario.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newExportData(cfg, result))
}

func ExportJSON(path string, cfg *config.Config, result *scenario.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, cfg, result)
}

func ExportJSONStdout(cfg *config.Config, result *scenario.Result) error {
	return WriteJSON(os.Stdout, cfg, result)
}
