package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/affiway/backoffice/internal/auth"
	"github.com/affiway/backoffice/internal/logger"
	"github.com/affiway/backoffice/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProposalMarker is the fixed phrase that turns a staff message into the
// durable record of a tracking-code redirect. The first order-id token after
// it names the target order.
const ProposalMarker = "Svincolo giacenza"

// maximum candidates returned per hold order
const maxCandidates = 15

// order ids are UUIDs
var (
	orderIDPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	markerPattern  = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(ProposalMarker))
)

// MessageRepository is interface for interacting with the staff message log
type MessageRepository interface {
	// AppendMessage appends a message to the order channel
	AppendMessage(ctx context.Context, msg *models.StaffMessage) (*models.StaffMessage, error)
	// GetMessagesByOrderID returns the order channel oldest first
	GetMessagesByOrderID(ctx context.Context, orderID string) ([]models.StaffMessage, error)
	// ScanMessagesByText returns all messages system-wide containing the marker
	ScanMessagesByText(ctx context.Context, marker string) ([]models.StaffMessage, error)
}

// ExtractReferencedOrderID parses the order referenced by a proposal
// message: the first order-id token of a text carrying the marker phrase.
// A marker without any token is malformed and reported as not-a-proposal.
func ExtractReferencedOrderID(text string) (string, bool) {
	if !containsMarker(text) {
		return "", false
	}
	id := orderIDPattern.FindString(text)
	if id == "" {
		logger.Log.Warn("proposal marker without order reference", zap.String("text", text))
		return "", false
	}
	return id, true
}

func containsMarker(text string) bool {
	return markerPattern.MatchString(text)
}

// exclusionOverlay is the in-memory provisional set of targets proposed in
// the current session ahead of durable confirmation. It is replaced
// wholesale on every authoritative scan, never merged in place.
type exclusionOverlay struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newExclusionOverlay() *exclusionOverlay {
	return &exclusionOverlay{ids: map[string]struct{}{}}
}

func (o *exclusionOverlay) add(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ids[id] = struct{}{}
}

// drain returns the current overlay and resets it; the caller's
// authoritative scan supersedes whatever was pending.
func (o *exclusionOverlay) drain() map[string]struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	snapshot := o.ids
	o.ids = map[string]struct{}{}
	return snapshot
}

// ReassignService finds compatible target orders for a stock-held shipment
// and records redirect proposals in the staff channel.
type ReassignService struct {
	orders   OrderRepository
	messages MessageRepository
	overlay  *exclusionOverlay
}

// NewReassignService creates new ReassignService instance
func NewReassignService(orders OrderRepository, messages MessageRepository) *ReassignService {
	return &ReassignService{
		orders:   orders,
		messages: messages,
		overlay:  newExclusionOverlay(),
	}
}

// postalDistance is the absolute numeric difference between postal codes.
// Non-numeric or missing codes count as 0 for the comparison only.
func postalDistance(a, b string) int {
	an, err := strconv.Atoi(a)
	if err != nil {
		an = 0
	}
	bn, err := strconv.Atoi(b)
	if err != nil {
		bn = 0
	}
	d := an - bn
	if d < 0 {
		d = -d
	}
	return d
}

// variantsEqual compares variant selections as multisets, order-independent.
// Two empty selections are equal.
func variantsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := map[string]int{}
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}

// MatchCandidates filters and ranks reassignment targets for the hold
// order. Pure: the caller supplies the order collection and exclusion set.
func MatchCandidates(hold *models.Order, all []models.Order, exclusion map[string]struct{}) []models.Order {
	candidates := []models.Order{}

	for _, c := range all {
		if c.ID == hold.ID {
			continue
		}
		if _, excluded := exclusion[c.ID]; excluded {
			continue
		}
		if c.Status != models.OrderStatusConfirmed {
			continue
		}
		if c.ProductID != hold.ProductID {
			continue
		}
		if c.ProductQuantity != hold.ProductQuantity {
			continue
		}
		if !variantsEqual(c.VariantSelection, hold.VariantSelection) {
			continue
		}
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return postalDistance(candidates[i].Customer.PostalCode, hold.Customer.PostalCode) <
			postalDistance(candidates[j].Customer.PostalCode, hold.Customer.PostalCode)
	})

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	return candidates
}

// ExclusionSet rebuilds the set of orders already proposed as redirect
// targets: a global scan of every proposal message plus the hold order's own
// channel, computed the same way, plus the session overlay. The set is
// derived, never stored; the append-only log self-heals it on every call.
func (rs *ReassignService) ExclusionSet(ctx context.Context, holdOrderID string) (map[string]struct{}, error) {
	exclusion := map[string]struct{}{}

	global, err := rs.messages.ScanMessagesByText(ctx, ProposalMarker)
	if err != nil {
		return nil, err
	}
	for _, msg := range global {
		if id, ok := ExtractReferencedOrderID(msg.Text); ok {
			exclusion[id] = struct{}{}
		}
	}

	// redundant with the global scan but computed identically, so a scan
	// that misses the shared index still protects the current channel
	own, err := rs.messages.GetMessagesByOrderID(ctx, holdOrderID)
	if err != nil {
		return nil, err
	}
	for _, msg := range own {
		if id, ok := ExtractReferencedOrderID(msg.Text); ok {
			exclusion[id] = struct{}{}
		}
	}

	// the authoritative scan replaces the overlay wholesale; pending
	// proposals still count for this computation
	for id := range rs.overlay.drain() {
		exclusion[id] = struct{}{}
	}

	return exclusion, nil
}

// redirectable checks the hold order actually has a stranded shipment:
// status STOCK_HOLD and a tracking code to redirect.
func redirectable(hold *models.Order) error {
	if hold.Status != models.OrderStatusStockHold {
		return models.NewValidationError("status", "order is not in stock hold")
	}
	if hold.TrackingCode == "" {
		return models.NewValidationError("tracking_code", "stock-held order has no tracking code to redirect")
	}
	return nil
}

// FindCandidates loads the order collection and returns ranked reassignment
// targets for a stock-held order.
func (rs *ReassignService) FindCandidates(ctx context.Context, holdOrderID string) ([]models.Order, error) {
	hold, err := rs.orders.GetOrderByID(ctx, holdOrderID)
	if err != nil {
		return nil, err
	}

	if err := redirectable(hold); err != nil {
		return nil, err
	}

	exclusion, err := rs.ExclusionSet(ctx, holdOrderID)
	if err != nil {
		return nil, err
	}

	all, err := rs.orders.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	return MatchCandidates(hold, all, exclusion), nil
}

// Propose records the redirect of the hold order's tracking code to the
// target order. The target joins the in-memory exclusion overlay before the
// message is durably confirmed; the next authoritative scan reconciles.
func (rs *ReassignService) Propose(ctx context.Context, holdOrderID, targetOrderID string, actor auth.Actor) (*models.StaffMessage, error) {
	hold, err := rs.orders.GetOrderByID(ctx, holdOrderID)
	if err != nil {
		return nil, err
	}
	if err := redirectable(hold); err != nil {
		return nil, err
	}

	target, err := rs.orders.GetOrderByID(ctx, targetOrderID)
	if err != nil {
		return nil, err
	}
	if target.Status != models.OrderStatusConfirmed {
		return nil, models.NewValidationError("target", "target order is no longer confirmed")
	}

	// optimistic update ahead of the durable append
	rs.overlay.add(targetOrderID)

	msg := &models.StaffMessage{
		ID:         uuid.NewString(),
		OrderID:    holdOrderID,
		SenderID:   actor.ID,
		SenderName: actor.Name,
		SenderRole: actor.Role,
		Text:       fmt.Sprintf("%s: tracking %s reindirizzato all'ordine %s", ProposalMarker, hold.TrackingCode, targetOrderID),
		ReadBy:     []string{actor.ID},
	}

	appended, err := rs.messages.AppendMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("reassignment proposed",
		zap.String("hold", holdOrderID),
		zap.String("target", targetOrderID),
		zap.String("by", actor.ID))

	return appended, nil
}
