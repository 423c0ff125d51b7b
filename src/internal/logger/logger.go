package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Fields map[string]any

var base = newBase(os.Stdout)

var sensitiveKeys = map[string]struct{}{
	"pin":               {},
	"withdrawalpin":     {},
	"withdrawal_pin":    {},
	"withdrawalpinhash": {},
	"password":          {},
	"token":             {},
	"authorization":     {},
	"idnumber":          {},
	"id_number":         {},
}

func newBase(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Configure sets the minimum level. Unknown levels leave the current one in place.
func Configure(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(parsed)
	return nil
}

func SetOutput(out io.Writer) {
	base.SetOutput(out)
}

func Info(message string, fields Fields) {
	base.WithFields(sanitizeFields(fields)).Info(message)
}

func Warn(message string, fields Fields) {
	base.WithFields(sanitizeFields(fields)).Warn(message)
}

func Error(message string, err error, fields Fields) {
	entry := base.WithFields(sanitizeFields(fields))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func sanitizeFields(fields Fields) logrus.Fields {
	out := logrus.Fields{}
	for key, value := range fields {
		if isSensitiveKey(key) {
			out[key] = "******"
			continue
		}
		switch value.(type) {
		case map[string]any, []any, Fields:
			out[key] = SanitizePayload(value)
		default:
			out[key] = value
		}
	}
	return out
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
