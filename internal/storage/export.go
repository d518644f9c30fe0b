package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sweep"
)

// ExportData is a stored run in one JSON document.
type ExportData struct {
	Metadata RunMetadata          `json:"metadata"`
	Sweep    []sweep.Result       `json:"sweep,omitempty"`
	Fronts   []dynamo.FrontSample `json:"fronts,omitempty"`
}

// Export collects a run's metadata and its table.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{Metadata: *meta}
	switch meta.Kind {
	case KindSweep:
		data.Sweep, err = s.LoadSweep(runID)
	case KindRun:
		data.Fronts, err = s.LoadFronts(runID)
	default:
		err = fmt.Errorf("unknown run kind %q", meta.Kind)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func ExportJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
