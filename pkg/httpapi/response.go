package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mozartiade/archive/pkg/serrors"
)

// SuccessEnvelope and FailureEnvelope are the only two response shapes the
// API produces.
type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type FailureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		panic(err)
	}
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, &SuccessEnvelope{Success: true, Data: data})
}

func WriteFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, &FailureEnvelope{Success: false, Error: message})
}

// WriteServiceError maps a service-layer error onto the failure envelope.
// Unexpected errors surface as a generic 500 so internals never leak.
func WriteServiceError(w http.ResponseWriter, err error) {
	se := serrors.AsServiceError(err)
	message := se.Message
	if se.Status == http.StatusInternalServerError {
		message = "internal server error"
	}
	WriteFailure(w, se.Status, message)
}
