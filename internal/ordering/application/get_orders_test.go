package application

import (
	"context"
	"testing"
	"time"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrder_LoadsItemsAndHistory(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	order := seedOrder(domain.OrderStatusPending, now)
	orders := newFakeOrderRepo(order)
	items := &fakeItemRepo{}
	history := &fakeHistoryRepo{}

	require.NoError(t, items.Insert(context.Background(), nil, &domain.OrderItem{
		OrderItemID: uuid.New(),
		OrderID:     order.OrderID,
		ProductID:   uuid.New(),
		Quantity:    1,
	}))
	require.NoError(t, history.Append(context.Background(), nil,
		domain.NewStatusHistory(order.OrderID, "created", order.BuyerID, "Order created", now)))

	uc := NewGetOrdersUseCase(orders, items, history)

	detail, err := uc.GetOrder(context.Background(), order.OrderID, order.BuyerID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, detail.Order.OrderID)
	assert.Len(t, detail.Items, 1)
	assert.Len(t, detail.History, 1)
}

func TestGetOrder_BuyerScoped(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	order := seedOrder(domain.OrderStatusPending, now)
	uc := NewGetOrdersUseCase(newFakeOrderRepo(order), &fakeItemRepo{}, &fakeHistoryRepo{})

	_, err := uc.GetOrder(context.Background(), order.OrderID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrders_NewestFirst(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	buyer := uuid.New()

	older := seedOrder(domain.OrderStatusPending, now.Add(-time.Hour))
	older.BuyerID = buyer
	newer := seedOrder(domain.OrderStatusPending, now)
	newer.BuyerID = buyer
	other := seedOrder(domain.OrderStatusPending, now)

	uc := NewGetOrdersUseCase(newFakeOrderRepo(older, newer, other), &fakeItemRepo{}, &fakeHistoryRepo{})

	orders, err := uc.ListOrders(context.Background(), buyer)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.OrderID, orders[0].OrderID)
	assert.Equal(t, older.OrderID, orders[1].OrderID)
}
