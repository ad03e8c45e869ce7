package application

import (
	"context"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/google/uuid"
)

// OrderDetailDTO is an order with its lines and audit trail.
type OrderDetailDTO struct {
	Order   *domain.Order
	Items   []*domain.OrderItem
	History []*domain.StatusHistory
}

// GetOrdersUseCase serves the buyer-scoped order read side.
type GetOrdersUseCase struct {
	orderRepo   domain.OrderRepository
	itemRepo    domain.OrderItemRepository
	historyRepo domain.StatusHistoryRepository
}

func NewGetOrdersUseCase(
	orderRepo domain.OrderRepository,
	itemRepo domain.OrderItemRepository,
	historyRepo domain.StatusHistoryRepository,
) *GetOrdersUseCase {
	return &GetOrdersUseCase{
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
	}
}

// GetOrder loads one order with items and history. Orders belonging to a
// different buyer read as not found.
func (uc *GetOrdersUseCase) GetOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*OrderDetailDTO, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, domain.ErrOrderNotFound
	}
	items, err := uc.itemRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	history, err := uc.historyRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetailDTO{Order: order, Items: items, History: history}, nil
}

// ListOrders returns the buyer's orders, newest first.
func (uc *GetOrdersUseCase) ListOrders(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error) {
	return uc.orderRepo.ListByBuyer(ctx, buyerID)
}
