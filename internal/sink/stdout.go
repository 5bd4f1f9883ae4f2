package sink

import (
	"encoding/json"
	"io"
	"os"

	"fleetops-server/internal/model"
)

// Stdout prints telemetry samples as JSON lines.
type Stdout struct {
	enc *json.Encoder
}

// NewStdout creates a Stdout sink writing to os.Stdout.
func NewStdout() *Stdout {
	return NewStdoutTo(os.Stdout)
}

// NewStdoutTo creates a Stdout sink writing to w.
func NewStdoutTo(w io.Writer) *Stdout {
	return &Stdout{enc: json.NewEncoder(w)}
}

// Write outputs one sample as a JSON line.
func (s *Stdout) Write(sample model.TelemetrySample) error {
	return s.enc.Encode(sample)
}
