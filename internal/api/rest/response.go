package rest

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/domain/errors"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error struct {
		Type    string                 `json:"type"`
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details,omitempty"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps an error to the transport. AppErrors carry their own
// status; anything else becomes an opaque 500 so internals never leak.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		logger.Error("unhandled error", zap.Error(err))
		appErr = errors.NewInternalError("internal server error")
	} else if appErr.Type == errors.ErrorTypeInternal || appErr.Type == errors.ErrorTypeExternal {
		logger.Error("request failed", zap.String("code", appErr.Code), zap.Error(err))
	}

	var body errorBody
	body.Error.Type = string(appErr.Type)
	body.Error.Code = appErr.Code
	body.Error.Message = appErr.Message
	body.Error.Details = appErr.Details

	writeJSON(w, appErr.StatusCode, body)
}
