package sink

import (
	"encoding/json"
	"os"

	"fleetops-server/internal/model"
)

// File appends telemetry samples to a JSONL file.
type File struct {
	f   *os.File
	enc *json.Encoder
}

// NewFile creates (truncating) the JSONL file at path.
func NewFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &File{f: f, enc: json.NewEncoder(f)}, nil
}

// Write logs a single sample.
func (w *File) Write(sample model.TelemetrySample) error {
	return w.enc.Encode(sample)
}

// WriteBatch logs multiple samples.
func (w *File) WriteBatch(samples []model.TelemetrySample) error {
	for _, s := range samples {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (w *File) Close() error {
	return w.f.Close()
}
