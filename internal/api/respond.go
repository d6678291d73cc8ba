package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

// ValidationError rejects a request before any outbound call.
type ValidationError struct {
	Message string
	Fields  validation.Errors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, e.Fields.Error())
	}
	return e.Message
}

type errorResponse struct {
	Error   string            `json:"error"`
	Details validation.Errors `json:"details,omitempty"`
}

// decode reads a JSON body into v and validates it.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return &ValidationError{Message: "invalid request body: " + err.Error()}
	}
	if n, ok := v.(interface{ normalize() }); ok {
		n.normalize()
	}
	if val, ok := v.(validation.Validatable); ok {
		if err := val.Validate(); err != nil {
			var fields validation.Errors
			if errors.As(err, &fields) {
				return &ValidationError{Message: "invalid request", Fields: fields}
			}
			return &ValidationError{Message: err.Error()}
		}
	}
	return nil
}

// writeJSON marshals v before committing the status, so an unencodable
// payload becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "Error encoding response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// writeError maps err to a status code. Validation errors are 400; anything
// else is a 500 carrying prefix and the error message.
func writeError(w http.ResponseWriter, r *http.Request, prefix string, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Message, Details: ve.Fields})
		return
	}

	zap.L().Error("api: request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestID(r.Context())),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("%s: %v", prefix, err)})
}
