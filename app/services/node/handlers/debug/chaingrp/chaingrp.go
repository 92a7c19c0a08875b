// Package chaingrp maintains the group of debug handlers for chain
// administration.
package chaingrp

import (
	"encoding/json"
	"net/http"

	"github.com/placecoin/placecoin/foundation/blockchain/state"
	"go.uber.org/zap"
)

// Handlers manages the set of chain administration endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Reset clears the committed chain and the pending pool back to the
// genesis state. Only exposed on the debug mux.
func (h Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "use POST", http.StatusMethodNotAllowed)
		return
	}

	status := "chain reset to genesis"
	statusCode := http.StatusOK

	if err := h.State.ResetChain(); err != nil {
		status = err.Error()
		statusCode = http.StatusInternalServerError
	}

	data := struct {
		Status string `json:"status"`
	}{
		Status: status,
	}

	if err := response(w, statusCode, data); err != nil {
		h.Log.Errorw("chain reset", "ERROR", err)
	}

	h.Log.Infow("chain reset", "statusCode", statusCode, "method", r.Method, "path", r.URL.Path, "remoteaddr", r.RemoteAddr)
}

func response(w http.ResponseWriter, statusCode int, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		return err
	}

	return nil
}
