package application

import (
	"context"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/google/uuid"
)

// OrderingService is the application interface of the ordering module,
// exposing its use cases to the outer layers.
type OrderingService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderDTO) (*OrderResultDTO, error)
	UpdateOrder(ctx context.Context, cmd UpdateOrderDTO) error
	RequestCancel(ctx context.Context, cmd RequestCancelDTO) (*CancelResultDTO, error)
	ProcessCancellation(ctx context.Context, cmd ProcessCancellationDTO) (*CancelResultDTO, error)
	GetOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*OrderDetailDTO, error)
	ListOrders(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error)
}

type orderingService struct {
	createUC  *CreateOrderUseCase
	updateUC  *UpdateOrderUseCase
	requestUC *RequestCancelUseCase
	processUC *ProcessCancellationUseCase
	getUC     *GetOrdersUseCase
}

func NewOrderingService(
	createUC *CreateOrderUseCase,
	updateUC *UpdateOrderUseCase,
	requestUC *RequestCancelUseCase,
	processUC *ProcessCancellationUseCase,
	getUC *GetOrdersUseCase,
) OrderingService {
	return &orderingService{
		createUC:  createUC,
		updateUC:  updateUC,
		requestUC: requestUC,
		processUC: processUC,
		getUC:     getUC,
	}
}

func (s *orderingService) CreateOrder(ctx context.Context, cmd CreateOrderDTO) (*OrderResultDTO, error) {
	return s.createUC.Execute(ctx, cmd)
}

func (s *orderingService) UpdateOrder(ctx context.Context, cmd UpdateOrderDTO) error {
	return s.updateUC.Execute(ctx, cmd)
}

func (s *orderingService) RequestCancel(ctx context.Context, cmd RequestCancelDTO) (*CancelResultDTO, error) {
	return s.requestUC.Execute(ctx, cmd)
}

func (s *orderingService) ProcessCancellation(ctx context.Context, cmd ProcessCancellationDTO) (*CancelResultDTO, error) {
	return s.processUC.Execute(ctx, cmd)
}

func (s *orderingService) GetOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*OrderDetailDTO, error) {
	return s.getUC.GetOrder(ctx, orderID, buyerID)
}

func (s *orderingService) ListOrders(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error) {
	return s.getUC.ListOrders(ctx, buyerID)
}
