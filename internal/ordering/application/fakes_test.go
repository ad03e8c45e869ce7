package application

import (
	"context"
	"sort"

	biddomain "github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	catalogdomain "github.com/cristianortiz/marketplaceEngine/internal/catalog/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// fakeTxRunner executes the function directly; the fakes below ignore the
// nil transaction.
type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
	for _, o := range orders {
		cp := *o
		repo.orders[o.OrderID] = &cp
	}
	return repo
}

func (r *fakeOrderRepo) Insert(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	cp := *order
	r.orders[order.OrderID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) UpdateTotals(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	stored, ok := r.orders[order.OrderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	stored.TotalAmount = order.TotalAmount
	stored.TaxAmount = order.TaxAmount
	stored.ShippingCost = order.ShippingCost
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, expected []domain.OrderStatus, to domain.OrderStatus) (bool, error) {
	stored, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	for _, s := range expected {
		if stored.Status == s {
			stored.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) UpdateDetails(ctx context.Context, tx pgx.Tx, order *domain.Order, expected domain.OrderStatus) (bool, error) {
	stored, ok := r.orders[order.OrderID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	stored.ShippingAddressID = order.ShippingAddressID
	stored.BillingAddressID = order.BillingAddressID
	stored.Notes = order.Notes
	return true, nil
}

func (r *fakeOrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error) {
	var orders []*domain.Order
	for _, o := range r.orders {
		if o.BuyerID == buyerID {
			cp := *o
			orders = append(orders, &cp)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

type fakeItemRepo struct {
	items []*domain.OrderItem
}

func (r *fakeItemRepo) Insert(ctx context.Context, tx pgx.Tx, item *domain.OrderItem) error {
	cp := *item
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	var items []*domain.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			cp := *item
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (r *fakeItemRepo) ListByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	return r.ListByOrder(ctx, orderID)
}

type fakeHistoryRepo struct {
	entries []*domain.StatusHistory
}

func (r *fakeHistoryRepo) Append(ctx context.Context, tx pgx.Tx, entry *domain.StatusHistory) error {
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeHistoryRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.StatusHistory, error) {
	var entries []*domain.StatusHistory
	for _, e := range r.entries {
		if e.OrderID == orderID {
			cp := *e
			entries = append(entries, &cp)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ChangedAt.Before(entries[j].ChangedAt) })
	return entries, nil
}

func (r *fakeHistoryRepo) ListByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*domain.StatusHistory, error) {
	return r.ListByOrder(ctx, orderID)
}

func (r *fakeHistoryRepo) lastStatus() string {
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[len(r.entries)-1].Status
}

type fakeInventoryRepo struct {
	rows map[uuid.UUID]*domain.Inventory
}

func newFakeInventoryRepo(rows ...*domain.Inventory) *fakeInventoryRepo {
	repo := &fakeInventoryRepo{rows: make(map[uuid.UUID]*domain.Inventory)}
	for _, row := range rows {
		cp := *row
		repo.rows[row.InventoryID] = &cp
	}
	return repo
}

func (r *fakeInventoryRepo) GetByProductID(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*domain.Inventory, error) {
	for _, row := range r.rows {
		if row.ProductID == productID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInventoryRepo) DecrementStock(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, quantity int) (bool, error) {
	row, ok := r.rows[inventoryID]
	if !ok || row.Quantity < quantity {
		return false, nil
	}
	row.Quantity -= quantity
	return true, nil
}

func (r *fakeInventoryRepo) Restock(ctx context.Context, tx pgx.Tx, inventoryID uuid.UUID, quantity int) error {
	if row, ok := r.rows[inventoryID]; ok {
		row.Quantity += quantity
	}
	return nil
}

func (r *fakeInventoryRepo) quantity(inventoryID uuid.UUID) int {
	if row, ok := r.rows[inventoryID]; ok {
		return row.Quantity
	}
	return 0
}

type fakePaymentRepo struct {
	payments []*domain.Payment
}

func (r *fakePaymentRepo) Insert(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error {
	cp := *payment
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *fakePaymentRepo) ListCompletedCharges(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*domain.Payment, error) {
	var charges []*domain.Payment
	for _, p := range r.payments {
		if p.OrderID == orderID && p.TransactionType == domain.TransactionTypeCharge && p.Status == domain.PaymentRecordCompleted {
			cp := *p
			charges = append(charges, &cp)
		}
	}
	return charges, nil
}

func (r *fakePaymentRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for _, p := range r.payments {
		if p.OrderID == orderID {
			cp := *p
			payments = append(payments, &cp)
		}
	}
	return payments, nil
}

func (r *fakePaymentRepo) refunds(orderID uuid.UUID) []*domain.Payment {
	var refunds []*domain.Payment
	for _, p := range r.payments {
		if p.OrderID == orderID && p.TransactionType == domain.TransactionTypeRefund {
			refunds = append(refunds, p)
		}
	}
	return refunds
}

type fakeProductReader struct {
	products map[uuid.UUID]*catalogdomain.Product
}

func newFakeProductReader(products ...*catalogdomain.Product) *fakeProductReader {
	repo := &fakeProductReader{products: make(map[uuid.UUID]*catalogdomain.Product)}
	for _, p := range products {
		cp := *p
		repo.products[p.ProductID] = &cp
	}
	return repo
}

func (r *fakeProductReader) GetByID(ctx context.Context, id uuid.UUID) (*catalogdomain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

type fakeBidReader struct {
	bids map[uuid.UUID]*biddomain.Bid
}

func newFakeBidReader(bids ...*biddomain.Bid) *fakeBidReader {
	repo := &fakeBidReader{bids: make(map[uuid.UUID]*biddomain.Bid)}
	for _, b := range bids {
		cp := *b
		repo.bids[b.BidID] = &cp
	}
	return repo
}

func (r *fakeBidReader) GetByID(ctx context.Context, id uuid.UUID) (*biddomain.Bid, error) {
	b, ok := r.bids[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}
