package httpapi

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/engine"
	"github.com/DoyleJ11/squad-randomizer/internal/export"
	"github.com/DoyleJ11/squad-randomizer/internal/hub"
	"github.com/DoyleJ11/squad-randomizer/internal/lobby"
	"github.com/DoyleJ11/squad-randomizer/internal/types"
)

const (
	codeAttempts    = 10
	maxSettingsBody = 1 << 20
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errLobbyNotFound = errors.New("lobby not found")

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CreateLobby picks a code that is neither running nor persisted and starts
// an empty lobby under it.
func CreateLobby(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < codeAttempts; i++ {
			code, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			existing, err := h.Resume(r.Context(), code)
			if err != nil {
				writeError(w, err)
				return
			}
			if existing != nil {
				log.Debug("collision on code, regenerating", zap.String("lobby", code))
				continue
			}

			lb, err := h.Create(r.Context(), code)
			if err != nil {
				writeError(w, err)
				return
			}
			if lb == nil {
				http.Error(w, "failed to create lobby", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusCreated, struct {
				Code string `json:"code"`
			}{Code: code})
			return
		}
		http.Error(w, "failed to create lobby", http.StatusInternalServerError)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func GetCatalog(cat *catalog.Catalog) http.HandlerFunc {
	view := cat.View()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, view)
	}
}

type lobbyHandler func(w http.ResponseWriter, r *http.Request, lb *lobby.Lobby)

// withLobby resolves {code} to a running or persisted lobby.
func withLobby(h *hub.Hub, next lobbyHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb, err := h.Resume(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}
		if lb == nil {
			writeError(w, errLobbyNotFound)
			return
		}
		next(w, r, lb)
	}
}

type lobbyResponse struct {
	Code    string      `json:"code"`
	Version int         `json:"version"`
	Clients int         `json:"clients"`
	State   lobby.State `json:"state"`
}

func GetLobby(w http.ResponseWriter, r *http.Request, lb *lobby.Lobby) {
	v, err := lb.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lobbyResponse{Code: v.Code, Version: v.Version, Clients: v.NumClients, State: v.State})
}

// PostCommand applies one command using the same body the websocket accepts.
func PostCommand(w http.ResponseWriter, r *http.Request, lb *lobby.Lobby) {
	var msg types.ClientMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, fmt.Errorf("%w: %v", lobby.ErrInvalidCommand, err))
		return
	}
	snap, err := lb.Send(r.Context(), msg.Command())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.Snapshot(snap))
}

type resultResponse struct {
	Version      int                     `json:"version"`
	Result       engine.Record           `json:"result"`
	Compositions engine.TeamCompositions `json:"compositions"`
	Text         string                  `json:"text"`
}

func newResultResponse(version int, rec engine.Record, cat *catalog.Catalog) resultResponse {
	comp := engine.Compose(rec, cat)
	return resultResponse{Version: version, Result: rec, Compositions: comp, Text: export.Text(rec, comp)}
}

func Randomize(cat *catalog.Catalog) lobbyHandler {
	return func(w http.ResponseWriter, r *http.Request, lb *lobby.Lobby) {
		snap, err := lb.Send(r.Context(), lobby.Command{Type: lobby.CmdRandomize})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newResultResponse(snap.Version, *snap.State.Result, cat))
	}
}

func GetResult(cat *catalog.Catalog) lobbyHandler {
	return func(w http.ResponseWriter, r *http.Request, lb *lobby.Lobby) {
		v, err := lb.View(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if v.State.Result == nil {
			http.Error(w, "no result yet", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, newResultResponse(v.Version, *v.State.Result, cat))
	}
}

func RandomizeWeapon(w http.ResponseWriter, r *http.Request, lb *lobby.Lobby) {
	snap, err := lb.Send(r.Context(), lobby.Command{Type: lobby.CmdRandomizeWeapon})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Version int    `json:"version"`
		Weapon  string `json:"weapon"`
	}{Version: snap.Version, Weapon: snap.State.DeathmatchWeapon})
}

func ExportSettings(w http.ResponseWriter, r *http.Request, lb *lobby.Lobby) {
	v, err := lb.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=settings-%s.json", v.Code))
	writeJSON(w, http.StatusOK, constraints.Export(v.State.Settings()))
}

// ImportSettings replaces the lobby's settings with the uploaded document. A
// rejected document leaves the lobby untouched.
func ImportSettings(w http.ResponseWriter, r *http.Request, lb *lobby.Lobby) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSettingsBody))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", constraints.ErrMalformedSettings, err))
		return
	}
	snap, err := lb.Send(r.Context(), lobby.Command{Type: lobby.CmdImportSettings, Document: body})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, constraints.Export(snap.State.Settings()))
}

func ExportHistory(w http.ResponseWriter, r *http.Request, lb *lobby.Lobby) {
	v, err := lb.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteHistory(&buf, v.State.History); err != nil {
		http.Error(w, "failed to build workbook", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=history-%s.xlsx", v.Code))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
