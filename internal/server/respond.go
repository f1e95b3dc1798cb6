package server

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/kotomap/kotomap/pkg/errors"
	"github.com/kotomap/kotomap/pkg/expand"
	"github.com/kotomap/kotomap/pkg/session"
)

// errorResponse is the wire shape of every error body.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps application errors onto HTTP statuses and a stable error
// body. Unrecognized errors become opaque 500s; their detail stays in the
// server log, not on the wire.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	message := apperrors.UserMessage(err)

	switch {
	case errors.Is(err, expand.ErrBusy):
		code, message = apperrors.ErrCodeBusy, "an expansion is already in flight"
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		code, message = apperrors.ErrCodeSessionNotFound, "session not found"
	case code == "":
		code, message = apperrors.ErrCodeInternal, "internal error"
	}

	var resp errorResponse
	resp.Error.Code = string(code)
	resp.Error.Message = message
	writeJSON(w, statusFor(code), resp)
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidDomain,
		apperrors.ErrCodeInvalidNodeID, apperrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeNodeNotFound,
		apperrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeBusy:
		return http.StatusConflict
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	// An undecodable generator response is the upstream's fault, not the
	// client's.
	case apperrors.ErrCodeNetwork, apperrors.ErrCodeInvalidPayload:
		return http.StatusBadGateway
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
