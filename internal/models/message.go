package models

import "time"

// staff roles allowed to write to an order channel
const (
	RoleAdmin        = "ADMIN"
	RoleLogistics    = "LOGISTICS"
	RoleCustomerCare = "CUSTOMER_CARE"
	RoleAffiliate    = "AFFILIATE"
)

// StaffMessage is one entry of an order's append-only coordination log.
// A message whose text carries the reassignment marker and an order-id
// token is the durable record of a tracking-code redirect proposal.
type StaffMessage struct {
	ID         string
	OrderID    string
	SenderID   string
	SenderName string
	SenderRole string
	Text       string
	IsUrgent   bool
	CreatedAt  time.Time
	ReadBy     []string
}

// ReadByUser reports whether userID has already read the message.
func (m *StaffMessage) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
