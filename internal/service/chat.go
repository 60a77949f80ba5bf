package service

import (
	"context"
	"strings"

	"github.com/affiway/backoffice/internal/auth"
	"github.com/affiway/backoffice/internal/models"
	"github.com/google/uuid"
)

// ReadTracker marks messages read and caches unread badge counts
type ReadTracker interface {
	// MarkAllRead adds userID to every message of the order, idempotently
	MarkAllRead(ctx context.Context, orderID, userID string) error
}

// UnreadCache is a best-effort badge-count cache; the message log is the
// authority
type UnreadCache interface {
	Get(ctx context.Context, orderID, userID string) (int, bool)
	Set(ctx context.Context, orderID, userID string, count int)
	Invalidate(ctx context.Context, orderID, userID string)
	// InvalidateOrder drops every user's cached count for the order
	InvalidateOrder(ctx context.Context, orderID string)
}

// ChatRepository is the message log plus read tracking
type ChatRepository interface {
	MessageRepository
	ReadTracker
}

// ChatService owns the per-order staff coordination channel
type ChatService struct {
	repo   ChatRepository
	unread UnreadCache
}

// NewChatService creates new ChatService instance
func NewChatService(repo ChatRepository, unread UnreadCache) *ChatService {
	return &ChatService{repo: repo, unread: unread}
}

// Post appends a free-text staff message to the order channel. The sender
// starts in the read set.
func (cs *ChatService) Post(ctx context.Context, orderID string, actor auth.Actor, text string, urgent bool) (*models.StaffMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("text", "message text is empty")
	}

	msg := &models.StaffMessage{
		ID:         uuid.NewString(),
		OrderID:    orderID,
		SenderID:   actor.ID,
		SenderName: actor.Name,
		SenderRole: actor.Role,
		Text:       text,
		IsUrgent:   urgent,
		ReadBy:     []string{actor.ID},
	}

	appended, err := cs.repo.AppendMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	// every other user's badge just went stale
	if cs.unread != nil {
		cs.unread.InvalidateOrder(ctx, orderID)
	}

	return appended, nil
}

// List returns the order channel oldest first.
func (cs *ChatService) List(ctx context.Context, orderID string) ([]models.StaffMessage, error) {
	return cs.repo.GetMessagesByOrderID(ctx, orderID)
}

// MarkAllRead marks every message of the order read by the user. Re-running
// is a no-op; the badge cache is invalidated either way.
func (cs *ChatService) MarkAllRead(ctx context.Context, orderID, userID string) error {
	if err := cs.repo.MarkAllRead(ctx, orderID, userID); err != nil {
		return err
	}
	if cs.unread != nil {
		cs.unread.Invalidate(ctx, orderID, userID)
	}
	return nil
}

// UnreadCount returns how many messages of the order the user has not read.
func (cs *ChatService) UnreadCount(ctx context.Context, orderID, userID string) (int, error) {
	if cs.unread != nil {
		if n, ok := cs.unread.Get(ctx, orderID, userID); ok {
			return n, nil
		}
	}

	messages, err := cs.repo.GetMessagesByOrderID(ctx, orderID)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range messages {
		if !messages[i].ReadByUser(userID) {
			count++
		}
	}

	if cs.unread != nil {
		cs.unread.Set(ctx, orderID, userID, count)
	}

	return count, nil
}
