// Package logger builds the structured logrus logger shared by the engine,
// the HTTP API, and the CLI.
package logger

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Logger wraps logrus logger
type Logger struct {
	*logrus.Logger
}

// New creates a JSON logger at the given logrus level name.
// Unknown levels fall back to info.
func New(service, level string) *Logger {
	return NewWithOutput(service, level, os.Stderr)
}

// NewWithOutput is New writing to out.
func NewWithOutput(service, level string, out io.Writer) *Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(out)
	log.SetLevel(ParseLevel(level))
	log.AddHook(serviceHook(service))
	return &Logger{Logger: log}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return NewWithOutput("test", "error", io.Discard)
}

// ParseLevel maps a config string to a logrus level. Unknown levels fall
// back to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// WithUser adds the user id to the entry.
func (l *Logger) WithUser(user string) *logrus.Entry {
	return l.WithField("user", user)
}

// Middleware logs every HTTP request with its chi request ID.
func (l *Logger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		entry := l.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		})
		if ww.Status() >= http.StatusInternalServerError {
			entry.Error("http request failed")
			return
		}
		entry.Debug("http request")
	})
}

// serviceHook stamps every entry with the service name.
type serviceHook string

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = string(h)
	}
	return nil
}
