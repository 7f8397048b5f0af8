package handlers

import (
	"encoding/json"
	"net/http"

	"chatmemo/application/services"
	"chatmemo/pkg/common"
	"chatmemo/pkg/errors"
	"chatmemo/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MessageHandler serves message lifecycle endpoints
type MessageHandler struct {
	messages *services.MessageService
	memos    *services.MemoService
	errs     *errors.ErrorHandler
	logger   *zap.Logger
}

// NewMessageHandler creates a message handler
func NewMessageHandler(messages *services.MessageService, memos *services.MemoService, errs *errors.ErrorHandler, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, memos: memos, errs: errs, logger: logger}
}

// MessageRequest is the payload for adding or editing a message
type MessageRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *MessageHandler) bindOwner(r *http.Request) bool {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		return false
	}
	h.memos.SetOwner(userID)
	return true
}

// List returns a memo's active messages, oldest first
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	memoID := chi.URLParam(r, "memoID")
	if err := h.messages.List(r.Context(), memoID); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.messages.Messages())
}

// Add appends a message to a memo. The first message of an untouched
// memo also seeds the memo title.
func (h *MessageHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}

	memoID := chi.URLParam(r, "memoID")
	if err := h.messages.Add(r.Context(), memoID, req.Content); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, h.messages.Messages())
}

// Edit overwrites a message's content, archiving the prior version
func (h *MessageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}

	messageID := chi.URLParam(r, "messageID")
	if err := h.messages.Edit(r.Context(), messageID, req.Content); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.messages.Messages())
}

// Delete soft-deletes a message, leaving a 5 second undo window
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	messageID := chi.URLParam(r, "messageID")
	if err := h.messages.Delete(r.Context(), messageID); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"undoAvailable": h.messages.UndoPending()})
}

// Undo restores the most recently deleted message while its window is open
func (h *MessageHandler) Undo(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	if err := h.messages.Undo(r.Context()); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.messages.Messages())
}

// History returns a message's archived versions, most recent first
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	messageID := chi.URLParam(r, "messageID")
	common.RespondJSON(w, http.StatusOK, h.messages.History(r.Context(), messageID))
}
