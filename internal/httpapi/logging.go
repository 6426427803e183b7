package httpapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const defaultMaxLogBytes = 2048

// statusRecorder captures the status code and a bounded copy of the body
// for request logs.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	maxLogBytes  int
	bytesWritten int
	logBody      bytes.Buffer
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	written, err := r.ResponseWriter.Write(p)
	r.bytesWritten += written

	if remaining := r.maxLogBytes - r.logBody.Len(); remaining > 0 {
		chunk := p[:written]
		if len(chunk) > remaining {
			chunk = chunk[:remaining]
			r.truncated = true
		}
		r.logBody.Write(chunk)
	} else if written > 0 {
		r.truncated = true
	}
	return written, err
}

// requestLogger logs one line per request. Error responses include the
// start of the body.
func requestLogger(logger *zap.Logger, maxLogBytes int) func(http.Handler) http.Handler {
	if maxLogBytes <= 0 {
		maxLogBytes = defaultMaxLogBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			recorder := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				maxLogBytes:    maxLogBytes,
			}

			next.ServeHTTP(recorder, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.statusCode),
				zap.Int("bytes", recorder.bytesWritten),
				zap.Duration("duration", time.Since(started)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if recorder.statusCode >= http.StatusBadRequest {
				fields = append(fields,
					zap.String("response", recorder.logBody.String()),
					zap.Bool("truncated", recorder.truncated),
				)
				logger.Warn("request", fields...)
				return
			}
			logger.Info("request", fields...)
		})
	}
}
