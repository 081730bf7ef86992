package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Rrens/property-assistant/internal/api/response"
	"github.com/Rrens/property-assistant/internal/domain"
	"github.com/Rrens/property-assistant/internal/service"
)

var validate = validator.New()

// MessageRequest is the body of a chat message
type MessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// ChatHandler handles chat endpoints
type ChatHandler struct {
	assistant *service.AssistantService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(assistant *service.AssistantService) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// CreateSession opens a new conversation
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.assistant.CreateSession(r.Context())
	response.Created(w, map[string]string{
		"session_id": id,
	})
}

// SendMessage handles one user message and returns the assistant reply
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	reply, err := h.assistant.Chat(r.Context(), sessionID, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrEmptySessionID) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "failed to process message")
		return
	}

	response.OK(w, reply)
}

// Transcript returns the latest messages of a session
func (h *ChatHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	messages, err := h.assistant.Transcript(r.Context(), sessionID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "session not found")
			return
		}
		response.InternalError(w, "failed to load transcript")
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	response.OK(w, messages)
}

func validationErrors(err error) any {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}

	fields := make(map[string]string)
	for _, e := range ve {
		switch e.Tag() {
		case "required":
			fields[e.Field()] = "field is required"
		case "max":
			fields[e.Field()] = "must be at most " + e.Param() + " characters"
		default:
			fields[e.Field()] = "validation failed on " + e.Tag()
		}
	}
	return fields
}
