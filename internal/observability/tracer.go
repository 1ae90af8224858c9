package observability

import (
	"time"

	"go.uber.org/zap"
)

// maxPreviewLength caps how much call input/output is recorded per span.
const maxPreviewLength = 500

// Record is one named trace entry for a model or provider call.
type Record struct {
	Name     string
	Input    string
	Output   string
	Err      error
	Metadata map[string]any
	Latency  time.Duration
}

// Tracer emits trace records for generation and embedding calls. Emission
// never returns an error to the caller; a nil Tracer drops all records.
type Tracer struct {
	logger *zap.Logger
}

// NewTracer creates a tracer backed by the given logger.
func NewTracer(logger *zap.Logger) *Tracer {
	return &Tracer{logger: logger}
}

// Emit writes one trace record. Safe on a nil tracer.
func (t *Tracer) Emit(record Record) {
	if t == nil || t.logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("input_preview", TruncateForLog(record.Input, maxPreviewLength)),
		zap.String("output_preview", TruncateForLog(record.Output, maxPreviewLength)),
		zap.Duration("latency", record.Latency),
	}
	for key, value := range record.Metadata {
		fields = append(fields, zap.Any(key, value))
	}
	if record.Err != nil {
		fields = append(fields, zap.Error(record.Err))
		t.logger.Warn(record.Name, fields...)
		return
	}
	t.logger.Debug(record.Name, fields...)
}

// Span starts a timed span and returns a closer that emits the record.
func (t *Tracer) Span(name, input string, metadata map[string]any) func(output string, err error) {
	start := time.Now()
	return func(output string, err error) {
		t.Emit(Record{
			Name:     name,
			Input:    input,
			Output:   output,
			Err:      err,
			Metadata: metadata,
			Latency:  time.Since(start),
		})
	}
}
