package api

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName       = "taskly-api/api"
	boardSpanName    = "board.fetch"
	boardEventName   = "board.request.completed"
	boardEventDomain = "taskly"
	boardRoute       = "/api/board"
)

// boardRequestMetrics collects timings for one board fetch and emits them
// as a span plus a structured observability.event log entry.
type boardRequestMetrics struct {
	logger           *log.Logger
	span             trace.Span
	start            time.Time
	snapshotDuration time.Duration
	encodeDuration   time.Duration
	tasksReturned    int
	columnsReturned  int
	errorStage       string
}

func newBoardRequestMetrics(ctx context.Context, logger *log.Logger) (*boardRequestMetrics, context.Context) {
	m := &boardRequestMetrics{logger: logger, start: time.Now()}
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, boardSpanName)
	m.span = span
	return m, spanCtx
}

func (m *boardRequestMetrics) ObserveSnapshot(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.snapshotDuration = duration
}

func (m *boardRequestMetrics) ObserveEncode(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.encodeDuration = duration
}

func (m *boardRequestMetrics) SetTasksReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.tasksReturned = count
}

func (m *boardRequestMetrics) SetColumnsReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.columnsReturned = count
}

func (m *boardRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

// Log finishes the span and writes the observability event. It must be
// called exactly once per request.
func (m *boardRequestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	severityText, severityNumber := severityForStatus(status, err)

	attrs := []attribute.KeyValue{
		attribute.String("http.route", boardRoute),
		attribute.Float64("taskly.board.total_ms", durationToMillis(time.Since(m.start))),
		attribute.Int("taskly.board.tasks_returned", m.tasksReturned),
		attribute.Int("taskly.board.columns_returned", m.columnsReturned),
	}
	if m.snapshotDuration > 0 {
		attrs = append(attrs, attribute.Float64("taskly.board.snapshot_ms", durationToMillis(m.snapshotDuration)))
	}
	if m.encodeDuration > 0 {
		attrs = append(attrs, attribute.Float64("taskly.board.encode_ms", durationToMillis(m.encodeDuration)))
	}
	if m.errorStage != "" {
		attrs = append(attrs, attribute.String("taskly.board.error_stage", m.errorStage))
	}
	if err != nil {
		attrs = append(attrs, attribute.String("error.message", err.Error()))
	}

	if m.span != nil {
		spanAttrs := append([]attribute.KeyValue{attribute.Int("http.status_code", status)}, attrs...)
		m.span.SetAttributes(spanAttrs...)

		eventAttrs := append([]attribute.KeyValue{
			attribute.String("event.name", boardEventName),
			attribute.String("event.domain", boardEventDomain),
			attribute.String("severity_text", severityText),
			attribute.Int("severity_number", severityNumber),
		}, attrs...)
		m.span.AddEvent("observability.event", trace.WithAttributes(eventAttrs...))

		if err != nil || status >= http.StatusInternalServerError {
			desc := "board fetch failed"
			if err != nil {
				desc = err.Error()
			}
			m.span.SetStatus(codes.Error, desc)
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"event.name":      boardEventName,
		"event.domain":    boardEventDomain,
		"severity_text":   severityText,
		"severity_number": severityNumber,
		"attributes":      attributesToFields(attrs),
	}
	if m.span != nil {
		if sc := m.span.SpanContext(); sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
	}
	m.logger.WithFields(fields).Info("observability.event")
}

func severityForStatus(status int, err error) (string, int) {
	switch {
	case err != nil || status >= http.StatusInternalServerError:
		return "ERROR", 17
	case status >= http.StatusBadRequest:
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func attributesToFields(attrs []attribute.KeyValue) map[string]any {
	out := make(map[string]any, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value.AsInterface()
	}
	return out
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
