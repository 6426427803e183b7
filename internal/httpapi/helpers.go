package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/quiz"
	"github.com/7283111011/FLK2/internal/sessions"
)

const maxBodyBytes = 1 << 20

func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	var validation *questionset.ValidationError
	var malformed *quiz.MalformedQuestionError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid question set", Issues: validation.Issues})
	case errors.As(err, &malformed):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: malformed.Error()})
	case errors.Is(err, questionset.ErrSetNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "question set not found"})
	case errors.Is(err, sessions.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
	case errors.Is(err, quiz.ErrIndexOutOfRange), errors.Is(err, quiz.ErrUnknownOption):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, quiz.ErrNotCurrentQuestion), errors.Is(err, quiz.ErrNotAtEnd):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		a.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func isValidation(err error) bool {
	var validation *questionset.ValidationError
	return errors.As(err, &validation)
}
