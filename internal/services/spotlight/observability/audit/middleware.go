package audit

import (
	"log"
	"net/http"

	"github.com/Tienisto/pub-dev/internal/services/spotlight/storage"
	"go.opentelemetry.io/otel/trace"
)

// Middleware emits an audit event for each HTTP request handled by the
// spotlight service.
//
// All requests are captured to make operational coverage explicit. Read
// and write classification follows the HTTP method.
func Middleware(store storage.AuditEventStore, next http.Handler) http.Handler {
	emitter := NewEmitter(store)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		if store == nil {
			return
		}

		eventName := EventHTTPWrite
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			eventName = EventHTTPRead
		}

		severity := SeverityInfo
		if recorder.status >= http.StatusInternalServerError {
			severity = SeverityError
		} else if recorder.status >= http.StatusBadRequest {
			severity = SeverityWarn
		}

		var traceID, spanID string
		if sc := trace.SpanFromContext(r.Context()).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
			spanID = sc.SpanID().String()
		}

		if err := emitter.Emit(r.Context(), storage.AuditEvent{
			EventName:  eventName,
			Severity:   string(severity),
			Method:     r.Method,
			Path:       r.URL.Path,
			StatusCode: recorder.status,
			TraceID:    traceID,
			SpanID:     spanID,
		}); err != nil {
			log.Printf("audit emit %s %s: %v", r.Method, r.URL.Path, err)
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.wroteHeader = true
	}
	return r.ResponseWriter.Write(b)
}
