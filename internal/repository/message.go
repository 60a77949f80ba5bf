package repository

import (
	"context"

	"github.com/affiway/backoffice/internal/models"
	"github.com/affiway/backoffice/internal/repository/postgres"
)

const (
	insertMessageQuery = `
						INSERT INTO staff_messages (id, order_id, sender_id, sender_name, sender_role, body, is_urgent, read_by)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
						RETURNING created_at
`
	selectMessagesByOrderQuery = `
						SELECT id, order_id, sender_id, sender_name, sender_role, body, is_urgent, created_at, read_by
						FROM staff_messages
						WHERE order_id = $1
						ORDER BY created_at ASC
`
	selectMessagesByTextQuery = `
						SELECT id, order_id, sender_id, sender_name, sender_role, body, is_urgent, created_at, read_by
						FROM staff_messages
						WHERE body LIKE '%' || $1 || '%'
`
	markAllReadQuery = `
						UPDATE staff_messages
						SET read_by = array_append(read_by, $1)
						WHERE order_id = $2 AND NOT ($1 = ANY(read_by))
`
)

// MessageRepository persists the append-only staff coordination log
type MessageRepository struct {
	db *postgres.DB
}

// NewMessageRepository creates new MessageRepository instance
func NewMessageRepository(db *postgres.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// AppendMessage appends a message to the order channel
func (mr *MessageRepository) AppendMessage(ctx context.Context, msg *models.StaffMessage) (*models.StaffMessage, error) {
	err := mr.db.QueryRow(ctx, insertMessageQuery,
		msg.ID, msg.OrderID, msg.SenderID, msg.SenderName, msg.SenderRole,
		msg.Text, msg.IsUrgent, msg.ReadBy).Scan(&msg.CreatedAt)
	if err != nil {
		if errCode := mr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return msg, nil
}

func (mr *MessageRepository) queryMessages(ctx context.Context, query string, args ...any) ([]models.StaffMessage, error) {
	rows, err := mr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.StaffMessage{}

	for rows.Next() {
		msg := models.StaffMessage{}
		err = rows.Scan(&msg.ID, &msg.OrderID, &msg.SenderID, &msg.SenderName, &msg.SenderRole,
			&msg.Text, &msg.IsUrgent, &msg.CreatedAt, &msg.ReadBy)
		if err != nil {
			continue
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// GetMessagesByOrderID returns the order channel oldest first
func (mr *MessageRepository) GetMessagesByOrderID(ctx context.Context, orderID string) ([]models.StaffMessage, error) {
	return mr.queryMessages(ctx, selectMessagesByOrderQuery, orderID)
}

// ScanMessagesByText returns every message across all orders whose body
// contains the given marker. Used to rebuild the reassignment exclusion set.
func (mr *MessageRepository) ScanMessagesByText(ctx context.Context, marker string) ([]models.StaffMessage, error) {
	return mr.queryMessages(ctx, selectMessagesByTextQuery, marker)
}

// MarkAllRead adds userID to read_by of every message of the order that does
// not carry it yet. Re-running is a no-op.
func (mr *MessageRepository) MarkAllRead(ctx context.Context, orderID, userID string) error {
	_, err := mr.db.Exec(ctx, markAllReadQuery, userID, orderID)
	return err
}
