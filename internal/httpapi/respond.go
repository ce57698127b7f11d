// internal/httpapi/respond.go
package httpapi

import (
	"encoding/json"
	"net/http"

	"reclaim/internal/lostfound"
)

// errorBody is the JSON shape of a failed request. Kind carries the failure
// class so clients branch on cause instead of matching message strings.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var kindStatus = map[lostfound.Kind]int{
	lostfound.KindNotFound:          http.StatusNotFound,
	lostfound.KindInvalidTransition: http.StatusConflict,
	lostfound.KindAlreadyMatched:    http.StatusConflict,
	lostfound.KindDependencyExists:  http.StatusConflict,
	lostfound.KindPolicyViolation:   http.StatusConflict,
	lostfound.KindConflict:          http.StatusConflict,
	lostfound.KindUnauthorized:      http.StatusForbidden,
}

// WriteError translates a service failure into a response. Faults map to
// 4xx statuses with the kind in the body; anything else is a 500.
func WriteError(w http.ResponseWriter, err error) {
	kind := lostfound.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Kind: string(kind), Message: err.Error()})
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
