package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/affiway/backoffice/internal/auth"
	"github.com/affiway/backoffice/internal/middleware"
	"github.com/affiway/backoffice/internal/models"
	"github.com/go-chi/chi/v5"
)

// ChatService is the staff coordination channel surface
type ChatService interface {
	Post(ctx context.Context, orderID string, actor auth.Actor, text string, urgent bool) (*models.StaffMessage, error)
	List(ctx context.Context, orderID string) ([]models.StaffMessage, error)
	MarkAllRead(ctx context.Context, orderID, userID string) error
	UnreadCount(ctx context.Context, orderID, userID string) (int, error)
}

// ChatHandler represents HTTP handler for staff-channel requests
type ChatHandler struct {
	svc ChatService
}

// NewChatHandler creates new ChatHandler instance
func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// MessageResp is the wire representation of a staff message
type MessageResp struct {
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	SenderRole string `json:"sender_role"`
	Text       string `json:"text"`
	IsUrgent   bool   `json:"is_urgent"`
	CreatedAt  string `json:"created_at"`
	Unread     bool   `json:"unread"`
}

// PostMessageReq is a new staff message
type PostMessageReq struct {
	Text     string `json:"text"`
	IsUrgent bool   `json:"is_urgent"`
}

func toMessageResp(msg *models.StaffMessage, viewerID string) MessageResp {
	return MessageResp{
		ID:         msg.ID,
		OrderID:    msg.OrderID,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		SenderRole: msg.SenderRole,
		Text:       msg.Text,
		IsUrgent:   msg.IsUrgent,
		CreatedAt:  msg.CreatedAt.Format(time.RFC3339),
		Unread:     !msg.ReadByUser(viewerID),
	}
}

// ListMessages returns the order channel and marks it read for the viewer.
// Opening the chat view is the read acknowledgement.
func (ch *ChatHandler) ListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID := chi.URLParam(r, "id")

		messages, err := ch.svc.List(r.Context(), orderID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := ch.svc.MarkAllRead(r.Context(), orderID, actor.ID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]MessageResp, 0, len(messages))
		for i := range messages {
			resp = append(resp, toMessageResp(&messages[i], actor.ID))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// PostMessage appends a staff message to the order channel
func (ch *ChatHandler) PostMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req PostMessageReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		msg, err := ch.svc.Post(r.Context(), chi.URLParam(r, "id"), *actor, req.Text, req.IsUrgent)
		if err != nil {
			var validationErr models.ValidationError
			if errors.As(err, &validationErr) {
				http.Error(w, validationErr.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toMessageResp(msg, actor.ID))
	}
}

// MarkRead marks every message of the order read by the current user
func (ch *ChatHandler) MarkRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := ch.svc.MarkAllRead(r.Context(), chi.URLParam(r, "id"), actor.ID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// UnreadCount returns the badge count for the current user
func (ch *ChatHandler) UnreadCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		count, err := ch.svc.UnreadCount(r.Context(), chi.URLParam(r, "id"), actor.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"unread": count})
	}
}
