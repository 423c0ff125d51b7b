package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

// requestFields tags a log line with the matched route and the caller.
func requestFields(r *http.Request) logger.Fields {
	fields := logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			fields["route"] = tpl
		}
	}
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		fields["principalId"] = p.AccountID
		fields["principalRole"] = string(p.Role)
	}
	if r.URL.RawQuery != "" {
		fields["query"] = r.URL.RawQuery
	}
	return fields
}

func logRequest(r *http.Request, payload any) {
	fields := requestFields(r)
	if payload != nil {
		fields["payload"] = logger.SanitizePayload(payload)
	}
	logger.Info("api request received", fields)
}

// logResponse logs client errors as warnings and server errors as errors.
func logResponse(r *http.Request, status int, payload any, start time.Time) {
	fields := requestFields(r)
	fields["status"] = status
	fields["durationMs"] = time.Since(start).Milliseconds()
	fields["response"] = logger.SanitizePayload(payload)

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("api response sent", nil, fields)
	case status >= http.StatusBadRequest:
		logger.Warn("api response sent", fields)
	default:
		logger.Info("api response sent", fields)
	}
}

func logError(r *http.Request, err error, extra logger.Fields) {
	fields := requestFields(r)
	for k, v := range extra {
		fields[k] = v
	}
	logger.Error("api request failed", err, fields)
}
