package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/engine"
	"github.com/DoyleJ11/squad-randomizer/internal/hub"
	"github.com/DoyleJ11/squad-randomizer/internal/lobby"
	"github.com/DoyleJ11/squad-randomizer/internal/types"
)

// statusOf maps a command or lookup error to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errLobbyNotFound), errors.Is(err, constraints.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNotEnoughParticipants), errors.Is(err, engine.ErrNoEligibleOptions):
		return http.StatusUnprocessableEntity
	case errors.Is(err, lobby.ErrClosed), errors.Is(err, hub.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	case lobby.Reason(err) != "other":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	msg := types.Error(err)
	if errors.Is(err, errLobbyNotFound) {
		msg.Reason = "not_found"
	}
	writeJSON(w, statusOf(err), msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
