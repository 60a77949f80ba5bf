package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/affiway/backoffice/internal/models"
)

// in-memory fakes backing the service tests

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]models.Order
}

func newFakeOrderRepo(orders ...models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: map[string]models.Order{}}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[order.ID]; ok {
		return nil, models.ErrConflictData
	}
	f.orders[order.ID] = *order
	return order, nil
}

func (f *fakeOrderRepo) GetOrderByID(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	return &order, nil
}

func (f *fakeOrderRepo) GetOrdersByStatus(_ context.Context, status string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) GetAllOrders(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateOrder(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[order.ID]; !ok {
		return models.ErrOrderNotFound
	}
	f.orders[order.ID] = *order
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []models.StaffMessage
}

func (f *fakeMessageRepo) AppendMessage(_ context.Context, msg *models.StaffMessage) (*models.StaffMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.CreatedAt = time.Now()
	f.messages = append(f.messages, *msg)
	return msg, nil
}

func (f *fakeMessageRepo) GetMessagesByOrderID(_ context.Context, orderID string) ([]models.StaffMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.StaffMessage{}
	for _, m := range f.messages {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) ScanMessagesByText(_ context.Context, marker string) ([]models.StaffMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.StaffMessage{}
	for _, m := range f.messages {
		if strings.Contains(m.Text, marker) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkAllRead(_ context.Context, orderID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.messages {
		if f.messages[i].OrderID != orderID || f.messages[i].ReadByUser(userID) {
			continue
		}
		f.messages[i].ReadBy = append(f.messages[i].ReadBy, userID)
	}
	return nil
}

type fakePaymentRepo struct {
	mu        sync.Mutex
	processed map[string]string // payment id -> order id
	orders    map[string]models.Order
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		processed: map[string]string{},
		orders:    map[string]models.Order{},
	}
}

func (f *fakePaymentRepo) OrderIDForPayment(_ context.Context, paymentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orderID, ok := f.processed[paymentID]
	if !ok {
		return "", models.ErrDataNotFound
	}
	return orderID, nil
}

func (f *fakePaymentRepo) CreateOrderForPayment(_ context.Context, order *models.Order, paymentID string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.processed[paymentID]; ok {
		return existing, false, nil
	}
	f.processed[paymentID] = order.ID
	f.orders[order.ID] = *order
	return order.ID, true, nil
}

type fakeProductRepo struct {
	products map[string]*models.Product
}

func (f *fakeProductRepo) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, models.ErrUnknownProduct
	}
	return product, nil
}

type fakeIdemCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeIdemCache() *fakeIdemCache {
	return &fakeIdemCache{entries: map[string]string{}}
}

func (f *fakeIdemCache) Get(_ context.Context, paymentID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orderID, ok := f.entries[paymentID]
	return orderID, ok
}

func (f *fakeIdemCache) Set(_ context.Context, paymentID, orderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[paymentID] = orderID
}

type fakeUnreadCache struct {
	mu     sync.Mutex
	counts map[string]int // "orderID/userID"
}

func newFakeUnreadCache() *fakeUnreadCache {
	return &fakeUnreadCache{counts: map[string]int{}}
}

func (f *fakeUnreadCache) key(orderID, userID string) string {
	return orderID + "/" + userID
}

func (f *fakeUnreadCache) Get(_ context.Context, orderID, userID string) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.counts[f.key(orderID, userID)]
	return n, ok
}

func (f *fakeUnreadCache) Set(_ context.Context, orderID, userID string, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[f.key(orderID, userID)] = count
}

func (f *fakeUnreadCache) Invalidate(_ context.Context, orderID, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.counts, f.key(orderID, userID))
}

func (f *fakeUnreadCache) InvalidateOrder(_ context.Context, orderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.counts {
		if strings.HasPrefix(key, orderID+"/") {
			delete(f.counts, key)
		}
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) OrderEvent(event string, _ *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}
