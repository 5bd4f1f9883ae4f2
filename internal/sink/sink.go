// Export sinks for telemetry samples. The in-memory store remains the only
// queryable history; sinks are fire-and-forget exports.
package sink

import "fleetops-server/internal/model"

// Sink receives every synthesized or ingested telemetry sample.
type Sink interface {
	Write(model.TelemetrySample) error
}

// Optional: sinks can also support batch mode.
type batchSink interface {
	WriteBatch([]model.TelemetrySample) error
}

// Multi fans a sample out to several sinks.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a fan-out sink.
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Write sends a sample to all sinks.
func (m *Multi) Write(sample model.TelemetrySample) error {
	for _, s := range m.sinks {
		if err := s.Write(sample); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple samples to all sinks, using batch if supported.
func (m *Multi) WriteBatch(samples []model.TelemetrySample) error {
	for _, s := range m.sinks {
		if bs, ok := s.(batchSink); ok {
			if err := bs.WriteBatch(samples); err != nil {
				return err
			}
			continue
		}
		for _, sample := range samples {
			if err := s.Write(sample); err != nil {
				return err
			}
		}
	}
	return nil
}
