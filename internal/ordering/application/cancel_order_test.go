package application

import (
	"context"
	"testing"
	"time"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graceWindow = 15 * time.Minute

type cancelFixture struct {
	now       time.Time
	order     *domain.Order
	inventory *domain.Inventory

	orders   *fakeOrderRepo
	items    *fakeItemRepo
	history  *fakeHistoryRepo
	stock    *fakeInventoryRepo
	payments *fakePaymentRepo

	requestUC *RequestCancelUseCase
	processUC *ProcessCancellationUseCase
}

func newCancelFixture(t *testing.T, status domain.OrderStatus, age time.Duration) *cancelFixture {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	order := seedOrder(status, now.Add(-age))

	inventory := &domain.Inventory{
		InventoryID: uuid.New(),
		ProductID:   uuid.New(),
		Quantity:    3,
		SKU:         "KB-001",
	}
	f := &cancelFixture{
		now:       now,
		order:     order,
		inventory: inventory,
		orders:    newFakeOrderRepo(order),
		items:     &fakeItemRepo{},
		history:   &fakeHistoryRepo{},
		stock:     newFakeInventoryRepo(inventory),
		payments:  &fakePaymentRepo{},
	}

	// One stock item of quantity 2 and one auction win on the order.
	require.NoError(t, f.items.Insert(context.Background(), nil, &domain.OrderItem{
		OrderItemID:     uuid.New(),
		OrderID:         order.OrderID,
		ProductID:       inventory.ProductID,
		InventoryID:     &inventory.InventoryID,
		Quantity:        2,
		PriceAtPurchase: decimal.RequireFromString("49.99"),
		Subtotal:        decimal.RequireFromString("99.98"),
	}))
	winBid := uuid.New()
	require.NoError(t, f.items.Insert(context.Background(), nil, &domain.OrderItem{
		OrderItemID:     uuid.New(),
		OrderID:         order.OrderID,
		ProductID:       uuid.New(),
		BidID:           &winBid,
		Quantity:        1,
		PriceAtPurchase: decimal.NewFromInt(150),
		Subtotal:        decimal.NewFromInt(150),
		IsAuctionWin:    true,
	}))

	clk := clock.Mock{T: now}
	f.requestUC = NewRequestCancelUseCase(f.orders, f.items, f.history, f.stock, fakeTxRunner{}, clk, graceWindow)
	f.processUC = NewProcessCancellationUseCase(f.orders, f.items, f.history, f.stock, f.payments, fakeTxRunner{}, clk)
	return f
}

func (f *cancelFixture) orderStatus(t *testing.T) domain.OrderStatus {
	t.Helper()
	order, err := f.orders.GetByID(context.Background(), f.order.OrderID)
	require.NoError(t, err)
	return order.Status
}

func TestRequestCancel_FastPathInsideGraceWindow(t *testing.T) {
	f := newCancelFixture(t, domain.OrderStatusAwaitingPayment, 5*time.Minute)

	result, err := f.requestUC.Execute(context.Background(), RequestCancelDTO{
		OrderID: f.order.OrderID,
		BuyerID: f.order.BuyerID,
		Reason:  "ordered by mistake",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, result.Status)
	assert.Equal(t, domain.OrderStatusCancelled, f.orderStatus(t))

	// Stock item restocked, auction win untouched.
	assert.Equal(t, 5, f.stock.quantity(f.inventory.InventoryID))
	assert.Equal(t, string(domain.OrderStatusCancelled), f.history.lastStatus())
}

func TestRequestCancel_ReviewPathOutsideGraceWindow(t *testing.T) {
	// Scenario: order is 20 minutes old, the window has elapsed.
	f := newCancelFixture(t, domain.OrderStatusAwaitingPayment, 20*time.Minute)

	result, err := f.requestUC.Execute(context.Background(), RequestCancelDTO{
		OrderID: f.order.OrderID,
		BuyerID: f.order.BuyerID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancellationRequested, result.Status)

	// No inventory movement on the review path.
	assert.Equal(t, 3, f.stock.quantity(f.inventory.InventoryID))
}

func TestRequestCancel_PaidOrderTakesReviewPath(t *testing.T) {
	f := newCancelFixture(t, domain.OrderStatusProcessing, 5*time.Minute)
	f.orders.orders[f.order.OrderID].PaymentStatus = domain.PaymentStatusPaid

	result, err := f.requestUC.Execute(context.Background(), RequestCancelDTO{
		OrderID: f.order.OrderID,
		BuyerID: f.order.BuyerID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancellationRequested, result.Status)
}

func TestRequestCancel_NotCancellable(t *testing.T) {
	f := newCancelFixture(t, domain.OrderStatusShipped, 5*time.Minute)

	_, err := f.requestUC.Execute(context.Background(), RequestCancelDTO{
		OrderID: f.order.OrderID,
		BuyerID: f.order.BuyerID,
	})
	assert.ErrorIs(t, err, domain.ErrOrderNotCancellable)
}

func TestRequestCancel_WrongBuyer(t *testing.T) {
	f := newCancelFixture(t, domain.OrderStatusPending, 5*time.Minute)

	_, err := f.requestUC.Execute(context.Background(), RequestCancelDTO{
		OrderID: f.order.OrderID,
		BuyerID: uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedBuyer)
}

func TestProcessCancellation_ApprovedRefundsAndRestocks(t *testing.T) {
	f := newCancelFixture(t, domain.OrderStatusCancellationRequested, time.Hour)

	// One completed charge of 150 on the order.
	charge := &domain.Payment{
		PaymentID:       uuid.New(),
		OrderID:         f.order.OrderID,
		UserID:          f.order.BuyerID,
		Amount:          decimal.NewFromInt(150),
		Currency:        "USD",
		PaymentMethod:   "card",
		TransactionID:   "txn_abc",
		TransactionType: domain.TransactionTypeCharge,
		Status:          domain.PaymentRecordCompleted,
	}
	require.NoError(t, f.payments.Insert(context.Background(), nil, charge))

	result, err := f.processUC.Execute(context.Background(), ProcessCancellationDTO{
		OrderID:  f.order.OrderID,
		ActorID:  uuid.New(),
		Approved: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, result.Status)

	refunds := f.payments.refunds(f.order.OrderID)
	require.Len(t, refunds, 1)
	assert.True(t, refunds[0].Amount.Equal(charge.Amount))
	assert.Equal(t, domain.PaymentRecordProcessing, refunds[0].Status)
	require.NotNil(t, refunds[0].RelatedPaymentID)
	assert.Equal(t, charge.PaymentID, *refunds[0].RelatedPaymentID)

	assert.Equal(t, 5, f.stock.quantity(f.inventory.InventoryID))
}

func TestProcessCancellation_RejectedRevertsToPriorStatus(t *testing.T) {
	f := newCancelFixture(t, domain.OrderStatusCancellationRequested, time.Hour)

	// Audit trail: the order was awaiting payment before the request.
	require.NoError(t, f.history.Append(context.Background(), nil, domain.NewStatusHistory(
		f.order.OrderID, string(domain.OrderStatusAwaitingPayment), f.order.BuyerID, "", f.now.Add(-30*time.Minute))))
	require.NoError(t, f.history.Append(context.Background(), nil, domain.NewStatusHistory(
		f.order.OrderID, string(domain.OrderStatusCancellationRequested), f.order.BuyerID, "", f.now.Add(-10*time.Minute))))

	result, err := f.processUC.Execute(context.Background(), ProcessCancellationDTO{
		OrderID:  f.order.OrderID,
		ActorID:  uuid.New(),
		Approved: false,
		Notes:    "shipment already being prepared",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAwaitingPayment, result.Status)
	assert.Equal(t, domain.OrderStatusAwaitingPayment, f.orderStatus(t))
	assert.Equal(t, "cancellation_rejected", f.history.lastStatus())

	// Rejection changes nothing else.
	assert.Equal(t, 3, f.stock.quantity(f.inventory.InventoryID))
	assert.Empty(t, f.payments.refunds(f.order.OrderID))
}

func TestProcessCancellation_RejectedWithOnlyCreationEntryRevertsToPending(t *testing.T) {
	// A never-transitioned order carries just the creation entry, which
	// stands for pending.
	f := newCancelFixture(t, domain.OrderStatusCancellationRequested, time.Hour)

	require.NoError(t, f.history.Append(context.Background(), nil, domain.NewStatusHistory(
		f.order.OrderID, domain.HistoryStatusCreated, f.order.BuyerID, "Order created", f.now.Add(-50*time.Minute))))
	require.NoError(t, f.history.Append(context.Background(), nil, domain.NewStatusHistory(
		f.order.OrderID, string(domain.OrderStatusCancellationRequested), f.order.BuyerID, "", f.now.Add(-10*time.Minute))))

	result, err := f.processUC.Execute(context.Background(), ProcessCancellationDTO{
		OrderID:  f.order.OrderID,
		ActorID:  uuid.New(),
		Approved: false,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, result.Status)
	assert.Equal(t, domain.OrderStatusPending, f.orderStatus(t))
}

func TestProcessCancellation_RejectedIgnoresNonRequestableEntries(t *testing.T) {
	// Shipped can never precede a cancellation request; an audit trail
	// claiming it is unusable and reverts to processing.
	f := newCancelFixture(t, domain.OrderStatusCancellationRequested, time.Hour)

	require.NoError(t, f.history.Append(context.Background(), nil, domain.NewStatusHistory(
		f.order.OrderID, string(domain.OrderStatusShipped), f.order.BuyerID, "", f.now.Add(-30*time.Minute))))
	require.NoError(t, f.history.Append(context.Background(), nil, domain.NewStatusHistory(
		f.order.OrderID, string(domain.OrderStatusCancellationRequested), f.order.BuyerID, "", f.now.Add(-10*time.Minute))))

	result, err := f.processUC.Execute(context.Background(), ProcessCancellationDTO{
		OrderID:  f.order.OrderID,
		ActorID:  uuid.New(),
		Approved: false,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, result.Status)
}

func TestProcessCancellation_RejectedUnknownPriorFallsBackToProcessing(t *testing.T) {
	f := newCancelFixture(t, domain.OrderStatusCancellationRequested, time.Hour)

	result, err := f.processUC.Execute(context.Background(), ProcessCancellationDTO{
		OrderID:  f.order.OrderID,
		ActorID:  uuid.New(),
		Approved: false,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, result.Status)
}

func TestProcessCancellation_RequiresPendingRequest(t *testing.T) {
	f := newCancelFixture(t, domain.OrderStatusPending, time.Hour)

	_, err := f.processUC.Execute(context.Background(), ProcessCancellationDTO{
		OrderID:  f.order.OrderID,
		ActorID:  uuid.New(),
		Approved: true,
	})
	assert.ErrorIs(t, err, domain.ErrNotPendingDecision)
}

func TestProcessCancellation_ApprovedWithoutPaymentsCreatesNoRefunds(t *testing.T) {
	f := newCancelFixture(t, domain.OrderStatusCancellationRequested, time.Hour)

	_, err := f.processUC.Execute(context.Background(), ProcessCancellationDTO{
		OrderID:  f.order.OrderID,
		ActorID:  uuid.New(),
		Approved: true,
	})
	require.NoError(t, err)
	assert.Empty(t, f.payments.refunds(f.order.OrderID))
}
