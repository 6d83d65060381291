package checkout_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/payments"
	"github.com/01moynul/storefront-golang/internal/store"
)

// memStore is an in-memory stand-in for the MySQL store with the same
// transactional behaviour for orders: a failed Atomically leaves no trace.
type memStore struct {
	mu        sync.Mutex
	products  map[int64]*models.Product
	carts     map[int64][]models.CartItem
	addresses map[int64]models.Address
	orders    map[int64]*models.Order
	nextOrder int64
	notified  []int64
	clears    int

	// beforeMarkPaid runs inside MarkPaid with the lock held.
	beforeMarkPaid func(o *models.Order)
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[int64]*models.Product{},
		carts:     map[int64][]models.CartItem{},
		addresses: map[int64]models.Address{},
		orders:    map[int64]*models.Order{},
		nextOrder: 100,
	}
}

func (m *memStore) addProduct(p models.Product) {
	m.products[p.ID] = &p
}

func (m *memStore) addToCart(userID, productID int64, qty int) {
	m.carts[userID] = append(m.carts[userID], models.CartItem{
		ID: int64(len(m.carts[userID]) + 1), UserID: userID, ProductID: productID, Quantity: qty,
	})
}

func (m *memStore) stock(productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[productID].InStock
}

func (m *memStore) order(id int64) (*models.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, false
	}
	return cloneOrder(o), true
}

func (m *memStore) expire(orderID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.orders[orderID]
	m.restoreStock(o)
	o.DeliveryStatus = models.DeliveryExpired
}

func (m *memStore) restoreStock(o *models.Order) {
	for _, it := range o.Items {
		m.products[it.ProductID].InStock += it.Quantity
	}
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]models.OrderItem(nil), o.Items...)
	return &c
}

type cartView struct{ m *memStore }

func (v cartView) List(_ context.Context, userID int64) ([]models.CartItem, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	return append([]models.CartItem(nil), v.m.carts[userID]...), nil
}

func (v cartView) Clear(_ context.Context, userID int64) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	delete(v.m.carts, userID)
	v.m.clears++
	return nil
}

type addressView struct{ m *memStore }

func (v addressView) Get(_ context.Context, userID, addressID int64) (*models.Address, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	a, ok := v.m.addresses[addressID]
	if !ok || a.UserID != userID {
		return nil, apperr.NotFound(apperr.MsgAddressNotFound)
	}
	return &a, nil
}

type orderView struct{ m *memStore }

func (v orderView) Atomically(ctx context.Context, fn func(tx store.OrderTx) error) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()

	stock := make(map[int64]int, len(v.m.products))
	for id, p := range v.m.products {
		stock[id] = p.InStock
	}
	orders := make(map[int64]*models.Order, len(v.m.orders))
	for id, o := range v.m.orders {
		orders[id] = o
	}
	next := v.m.nextOrder

	if err := fn(memTx{m: v.m}); err != nil {
		for id, s := range stock {
			v.m.products[id].InStock = s
		}
		v.m.orders = orders
		v.m.nextOrder = next
		return err
	}
	return nil
}

func (v orderView) Get(_ context.Context, orderID int64) (*models.Order, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	o, ok := v.m.orders[orderID]
	if !ok {
		return nil, apperr.NotFound(apperr.MsgOrderNotFound)
	}
	return cloneOrder(o), nil
}

func (v orderView) MarkPaid(_ context.Context, orderID int64) (bool, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	o, ok := v.m.orders[orderID]
	if ok && v.m.beforeMarkPaid != nil {
		v.m.beforeMarkPaid(o)
	}
	if !ok || o.IsPaid || o.DeliveryStatus == models.DeliveryExpired {
		return false, nil
	}
	o.IsPaid = true
	return true, nil
}

func (v orderView) DeleteUnpaid(_ context.Context, orderID int64) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	o, ok := v.m.orders[orderID]
	if !ok || o.PaymentMethod != models.PaymentCard {
		return nil
	}
	if o.IsPaid {
		return apperr.Precondition(apperr.MsgOrderAlreadyPaid)
	}
	if o.DeliveryStatus != models.DeliveryExpired {
		v.m.restoreStock(o)
	}
	delete(v.m.orders, orderID)
	return nil
}

// memTx runs with memStore.mu already held.
type memTx struct{ m *memStore }

func (t memTx) LockProducts(_ context.Context, ids []int64) (map[int64]*models.Product, error) {
	out := make(map[int64]*models.Product, len(ids))
	for _, id := range ids {
		if p, ok := t.m.products[id]; ok {
			c := *p
			out[id] = &c
		}
	}
	return out, nil
}

func (t memTx) ReserveStock(_ context.Context, productID int64, quantity int) (bool, error) {
	p, ok := t.m.products[productID]
	if !ok || p.InStock < quantity {
		return false, nil
	}
	p.InStock -= quantity
	return true, nil
}

func (t memTx) InsertOrder(_ context.Context, o *models.Order) (int64, error) {
	t.m.nextOrder++
	o.ID = t.m.nextOrder
	t.m.orders[o.ID] = cloneOrder(o)
	return o.ID, nil
}

func (t memTx) InsertOrderItems(_ context.Context, orderID int64, items []models.OrderItem) error {
	for i := range items {
		items[i].ID = int64(i + 1)
		items[i].OrderID = orderID
	}
	t.m.orders[orderID].Items = append([]models.OrderItem(nil), items...)
	return nil
}

type notifierView struct{ m *memStore }

func (v notifierView) NotifySellers(_ context.Context, order *models.Order) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	v.m.notified = append(v.m.notified, order.ID)
	return nil
}

type mockGateway struct {
	mock.Mock
}

func (g *mockGateway) CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (string, error) {
	args := g.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (g *mockGateway) Session(ctx context.Context, sessionID string) (*payments.SessionStatus, error) {
	args := g.Called(ctx, sessionID)
	st, _ := args.Get(0).(*payments.SessionStatus)
	return st, args.Error(1)
}

func (g *mockGateway) ParseWebhook(payload []byte, signature string) (*payments.SessionStatus, bool, error) {
	args := g.Called(payload, signature)
	st, _ := args.Get(0).(*payments.SessionStatus)
	return st, args.Bool(1), args.Error(2)
}
