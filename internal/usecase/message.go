package usecase

import (
	"encoding/json"
)

type backendError struct {
	Detail json.RawMessage `json:"detail"`
}

// detailMessage extracts the backend's "detail" string, falling back when
// the body is not JSON or the detail is structured (validation errors).
func detailMessage(body []byte, fallback string) string {
	var e backendError
	if err := json.Unmarshal(body, &e); err != nil || len(e.Detail) == 0 {
		return fallback
	}
	var detail string
	if err := json.Unmarshal(e.Detail, &detail); err != nil || detail == "" {
		return fallback
	}
	return detail
}
