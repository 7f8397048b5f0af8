package handlers

import (
	"encoding/json"
	"net/http"

	"chatmemo/application/notify"
	"chatmemo/application/viewstate"
	"chatmemo/pkg/common"
	"chatmemo/pkg/errors"

	"go.uber.org/zap"
)

// ViewStateHandler serves persisted UI state and the transient user
// notice.
type ViewStateHandler struct {
	store    viewstate.Store
	notifier *notify.Notifier
	errs     *errors.ErrorHandler
	logger   *zap.Logger
}

// NewViewStateHandler creates a view state handler
func NewViewStateHandler(store viewstate.Store, notifier *notify.Notifier, errs *errors.ErrorHandler, logger *zap.Logger) *ViewStateHandler {
	return &ViewStateHandler{store: store, notifier: notifier, errs: errs, logger: logger}
}

// LastEditedMemoRequest is the payload for recording the last edited memo
type LastEditedMemoRequest struct {
	MemoID string `json:"memo_id"`
}

// GetLastEditedMemo returns the memo the user worked in last
func (h *ViewStateHandler) GetLastEditedMemo(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"memo_id": viewstate.LastEditedMemo(h.store),
	})
}

// PutLastEditedMemo records the memo the user worked in last. An empty
// ID clears the record.
func (h *ViewStateHandler) PutLastEditedMemo(w http.ResponseWriter, r *http.Request) {
	var req LastEditedMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}
	if err := viewstate.RememberLastEditedMemo(h.store, req.MemoID); err != nil {
		h.logger.Error("last edited memo save failed", zap.Error(err))
		h.errs.Handle(w, r, errors.NewInternalError("failed to save view state", err))
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"memo_id": req.MemoID})
}

// GetNotice returns the current transient user notice, "" when none
func (h *ViewStateHandler) GetNotice(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": h.notifier.Current()})
}
