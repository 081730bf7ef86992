package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Rrens/property-assistant/internal/api/response"
	"github.com/Rrens/property-assistant/internal/domain"
	"github.com/Rrens/property-assistant/internal/service"
)

// InboxHandler handles agent notification endpoints
type InboxHandler struct {
	inbox *service.InboxService
}

// NewInboxHandler creates a new inbox handler
func NewInboxHandler(inbox *service.InboxService) *InboxHandler {
	return &InboxHandler{inbox: inbox}
}

// List returns an agent's notifications; ?unread=true keeps the unread ones
func (h *InboxHandler) List(w http.ResponseWriter, r *http.Request) {
	agentID, err := strconv.ParseInt(chi.URLParam(r, "agentID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid agent ID")
		return
	}

	unread := false
	if u := r.URL.Query().Get("unread"); u != "" {
		if v, err := strconv.ParseBool(u); err == nil {
			unread = v
		}
	}

	list, err := h.inbox.List(r.Context(), agentID, unread)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "agent not found")
			return
		}
		response.InternalError(w, "failed to list notifications")
		return
	}

	response.OK(w, list)
}

// MarkRead flags a notification as read
func (h *InboxHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	agentID, err := strconv.ParseInt(chi.URLParam(r, "agentID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid agent ID")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "notificationID"))
	if err != nil {
		response.BadRequest(w, "invalid notification ID")
		return
	}

	if err := h.inbox.MarkRead(r.Context(), agentID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "notification not found")
			return
		}
		response.InternalError(w, "failed to mark notification read")
		return
	}

	response.NoContent(w)
}
