// Package handlers exposes the synchronization core over REST. Every
// handler resolves the account from the request context and pins the
// services to it before touching memo or message state.
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

// MemoHandler serves memo lifecycle endpoints
type MemoHandler struct {
	memos  *services.MemoService
	search *services.SearchService
	errs   *errors.ErrorHandler
	logger *zap.Logger
}

// NewMemoHandler creates a memo handler
func NewMemoHandler(memos *services.MemoService, search *services.SearchService, errs *errors.ErrorHandler, logger *zap.Logger) *MemoHandler {
	return &MemoHandler{memos: memos, search: search, errs: errs, logger: logger}
}

// CreateMemoRequest is the payload for creating a memo
type CreateMemoRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// RenameMemoRequest is the payload for renaming a memo
type RenameMemoRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// bindOwner pins the memo service to the authenticated account
func (h *MemoHandler) bindOwner(r *http.Request) bool {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		return false
	}
	h.memos.SetOwner(userID)
	return true
}

// List reloads and returns the account's memos in display order
func (h *MemoHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}
	if err := h.memos.List(r.Context()); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.memos.Memos())
}

// Create adds a memo and returns its ID. A concurrent create in
// flight yields 202 with no ID.
func (h *MemoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req CreateMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}

	id, err := h.memos.Create(r.Context(), req.Title)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if id == "" {
		common.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "creation in progress"})
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Rename sets a memo title and locks it against automatic derivation
func (h *MemoHandler) Rename(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req RenameMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}

	memoID := chi.URLParam(r, "memoID")
	if err := h.memos.Rename(r.Context(), memoID, req.Title); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": memoID, "title": req.Title})
}

// ToggleStar flips a memo's starred flag
func (h *MemoHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	memoID := chi.URLParam(r, "memoID")
	if err := h.memos.ToggleStar(r.Context(), memoID); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.memos.Memos())
}

// Delete removes a memo, leaving a 5 second undo window
func (h *MemoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	memoID := chi.URLParam(r, "memoID")
	if err := h.memos.Delete(r.Context(), memoID); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"undoAvailable": h.memos.UndoPending()})
}

// Undo restores the most recently deleted memo while its window is open
func (h *MemoHandler) Undo(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	if err := h.memos.Undo(r.Context()); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.memos.Memos())
}

// Search filters memos by query, hashtag and date range
func (h *MemoHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	userID, _ := common.GetUserID(r.Context())
	if err := h.memos.List(r.Context()); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := h.search.LoadAllMessages(r.Context(), userID); err != nil {
		h.logger.Warn("cross-memo search degraded to titles", zap.Error(err))
	}

	q := r.URL.Query()
	filter := services.SearchFilter{
		Query:     q.Get("q"),
		Hashtag:   q.Get("hashtag"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	common.RespondJSON(w, http.StatusOK, h.search.SearchMemos(h.memos.Memos(), filter))
}

// Hashtags returns the account's hashtag index
func (h *MemoHandler) Hashtags(w http.ResponseWriter, r *http.Request) {
	if !h.bindOwner(r) {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	userID, _ := common.GetUserID(r.Context())
	if err := h.memos.List(r.Context()); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := h.search.LoadAllMessages(r.Context(), userID); err != nil {
		h.logger.Warn("hashtag index degraded to titles", zap.Error(err))
	}
	common.RespondJSON(w, http.StatusOK, h.search.AllHashtags(h.memos.Memos()))
}
