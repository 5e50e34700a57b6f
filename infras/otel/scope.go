package otel

import (
	"fmt"
	"net/http"
	"time"
	"todolist/shared/failure"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	attributeErrorCode    = "error.code"
	attributeErrorMessage = "error.message"
	eventRejected         = "request rejected"
)

// Scope is one span plus the helpers handlers, services and repositories use on it.
type Scope interface {
	End()
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type scopeImpl struct {
	span oteltrace.Span
}

func (s *scopeImpl) End() {
	s.span.End()
}

// TraceError marks the span as failed. Client failures (4xx) are recorded as an event
// so that validation and auth rejections do not show up as server errors.
func (s *scopeImpl) TraceError(err error) {
	code := failure.GetCode(err)
	if failure.IsFailure(err) && code < http.StatusInternalServerError {
		s.span.AddEvent(eventRejected, oteltrace.WithAttributes(
			attribute.Int(attributeErrorCode, code),
			attribute.String(attributeErrorMessage, err.Error()),
		))

		return
	}

	s.span.RecordError(err)
	s.span.SetAttributes(attribute.Int(attributeErrorCode, code))
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *scopeImpl) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *scopeImpl) AddEvent(name string) {
	s.span.AddEvent(name)
}

func (s *scopeImpl) SetAttribute(key string, value any) {
	var kv attribute.KeyValue

	switch val := value.(type) {
	case bool:
		kv = attribute.Bool(key, val)
	case string:
		kv = attribute.String(key, val)
	case int:
		kv = attribute.Int(key, val)
	case int64:
		kv = attribute.Int64(key, val)
	case float64:
		kv = attribute.Float64(key, val)
	case []string:
		kv = attribute.StringSlice(key, val)
	case time.Duration:
		kv = attribute.Int64(key+"_ms", val.Milliseconds())
	case time.Time:
		kv = attribute.String(key, val.Format(time.RFC3339))
	default:
		kv = attribute.String(key, fmt.Sprintf("%v", val))
	}

	s.span.SetAttributes(kv)
}

func (s *scopeImpl) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.SetAttribute(key, value)
	}
}

func NewScope(span oteltrace.Span) Scope {
	return &scopeImpl{
		span: span,
	}
}
