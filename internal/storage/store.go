package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sbrunel/cytomech/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Metrics    map[string]float64 `json:"metrics"`
}

var stepHeader = []string{
	"time", "cells", "connections", "model_connections",
	"mean_pressure", "mean_radius", "total_force",
}

func (s *Store) Save(scenario string, dt, duration float64, seed int64, integrator string, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   scenario,
		Timestamp:  time.Now(),
		Seed:       seed,
		Dt:         dt,
		Duration:   duration,
		Integrator: integrator,
		Metrics:    result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "steps.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(stepHeader); err != nil {
		return "", err
	}

	for _, st := range result.Steps {
		row := []string{
			strconv.FormatFloat(st.Time, 'f', 6, 64),
			strconv.Itoa(st.Cells),
			strconv.Itoa(st.Connections),
			strconv.Itoa(st.ModelConnections),
			strconv.FormatFloat(st.MeanPressure, 'f', 6, 64),
			strconv.FormatFloat(st.MeanRadius, 'f', 6, 64),
			strconv.FormatFloat(st.TotalForce, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSteps reads back the per-step stats of a saved run. Malformed rows are
// skipped.
func (s *Store) LoadSteps(runID string) ([]sim.StepStats, error) {
	csvPath := filepath.Join(s.baseDir, runID, "steps.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.StepStats{}, nil
	}

	steps := make([]sim.StepStats, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < len(stepHeader) {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		cells, _ := strconv.Atoi(record[1])
		conns, _ := strconv.Atoi(record[2])
		modelConns, _ := strconv.Atoi(record[3])
		pressure, _ := strconv.ParseFloat(record[4], 64)
		radius, _ := strconv.ParseFloat(record[5], 64)
		force, _ := strconv.ParseFloat(record[6], 64)

		steps = append(steps, sim.StepStats{
			Time:             t,
			Cells:            cells,
			Connections:      conns,
			ModelConnections: modelConns,
			MeanPressure:     pressure,
			MeanRadius:       radius,
			TotalForce:       force,
		})
	}

	return steps, nil
}
