package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"calcboard/pkg/board"
	"calcboard/pkg/models"
	"calcboard/pkg/telemetry"
	"calcboard/pkg/utils"
)

type handlers struct {
	board *board.Store
}

// writeBoardErr maps the board error taxonomy onto HTTP statuses.
// Validation and ownership failures carry a descriptive message; storage
// failures get a generic body so internals never leak to the client.
func writeBoardErr(w http.ResponseWriter, op string, err error) {
	var ve *board.ValidationError
	var se *board.StorageError
	switch {
	case errors.As(err, &ve):
		telemetry.RecordOp(op, "validation")
		utils.JSONError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, board.ErrNotFound):
		telemetry.RecordOp(op, "not_found")
		utils.JSONError(w, http.StatusNotFound, "message not found")
	case errors.Is(err, board.ErrUnauthorized):
		telemetry.RecordOp(op, "unauthorized")
		utils.JSONError(w, http.StatusForbidden, "unauthorized")
	case errors.As(err, &se):
		telemetry.RecordOp(op, "storage")
		telemetry.RecordStorageFailure()
		utils.JSONError(w, http.StatusInternalServerError, "storage failure, try again")
	default:
		telemetry.RecordOp(op, "storage")
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	b := h.board.List()
	telemetry.RecordOp("list", "ok")
	_ = utils.JSONWrite(w, http.StatusOK, b)
}

func (h *handlers) createMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := h.board.Create(req.Name, req.Message)
	if err != nil {
		writeBoardErr(w, "create", err)
		return
	}
	telemetry.RecordOp("create", "ok")
	_ = utils.JSONWrite(w, http.StatusCreated, struct {
		Message models.Message `json:"message"`
	}{Message: m})
}

func (h *handlers) editMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := h.board.Edit(id, req.Name, req.Message)
	if err != nil {
		writeBoardErr(w, "edit", err)
		return
	}
	telemetry.RecordOp("edit", "ok")
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Message models.Message `json:"message"`
	}{Message: m})
}

func (h *handlers) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	name := r.URL.Query().Get("name")
	if err := h.board.Delete(id, name); err != nil {
		writeBoardErr(w, "delete", err)
		return
	}
	telemetry.RecordOp("delete", "ok")
	_ = utils.JSONWrite(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handlers) toggleReaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Reaction string `json:"reaction"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	reactions, err := h.board.ToggleReaction(id, req.Reaction, req.Name)
	if err != nil {
		writeBoardErr(w, "react", err)
		return
	}
	telemetry.RecordOp("react", "ok")
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Success   bool                `json:"success"`
		Reactions map[string][]string `json:"reactions"`
	}{Success: true, Reactions: reactions})
}

// clearAll empties the whole board. No ownership check on purpose: the
// trust model has no identities stronger than a display name, so this is
// an open administrative affordance rather than an oversight.
func (h *handlers) clearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.board.ClearAll(); err != nil {
		writeBoardErr(w, "clear", err)
		return
	}
	telemetry.RecordOp("clear", "ok")
	_ = utils.JSONWrite(w, http.StatusOK, map[string]bool{"success": true})
}
