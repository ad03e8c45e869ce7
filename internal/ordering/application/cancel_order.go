package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/clock"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// cancellableStatuses are the only statuses a cancellation request is
// accepted from.
var cancellableStatuses = []domain.OrderStatus{
	domain.OrderStatusPending,
	domain.OrderStatusProcessing,
	domain.OrderStatusAwaitingPayment,
}

// RequestCancelDTO is the buyer's cancellation request.
type RequestCancelDTO struct {
	OrderID uuid.UUID
	BuyerID uuid.UUID
	Reason  string
}

// CancelResultDTO reports which branch the request took.
type CancelResultDTO struct {
	OrderID uuid.UUID          `json:"order_id"`
	Status  domain.OrderStatus `json:"status"`
}

// RequestCancelUseCase handles buyer cancellation. Orders still inside the
// grace window with no captured payment cancel immediately and restock;
// everything else parks in cancellation_requested for review.
type RequestCancelUseCase struct {
	orderRepo     domain.OrderRepository
	itemRepo      domain.OrderItemRepository
	historyRepo   domain.StatusHistoryRepository
	inventoryRepo domain.InventoryRepository
	txRunner      db.TxRunner
	clk           clock.Clock
	graceWindow   time.Duration
}

func NewRequestCancelUseCase(
	orderRepo domain.OrderRepository,
	itemRepo domain.OrderItemRepository,
	historyRepo domain.StatusHistoryRepository,
	inventoryRepo domain.InventoryRepository,
	txRunner db.TxRunner,
	clk clock.Clock,
	graceWindow time.Duration,
) *RequestCancelUseCase {
	return &RequestCancelUseCase{
		orderRepo:     orderRepo,
		itemRepo:      itemRepo,
		historyRepo:   historyRepo,
		inventoryRepo: inventoryRepo,
		txRunner:      txRunner,
		clk:           clk,
		graceWindow:   graceWindow,
	}
}

func (uc *RequestCancelUseCase) Execute(ctx context.Context, cmd RequestCancelDTO) (*CancelResultDTO, error) {
	var result *CancelResultDTO
	err := uc.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		order, err := uc.orderRepo.GetByIDForUpdate(ctx, tx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order.BuyerID != cmd.BuyerID {
			return domain.ErrUnauthorizedBuyer
		}
		if !order.Status.Cancellable() {
			return fmt.Errorf("%w: status is %s", domain.ErrOrderNotCancellable, order.Status)
		}

		now := uc.clk.Now()
		fastPath := order.WithinGraceWindow(now, uc.graceWindow) &&
			order.PaymentStatus == domain.PaymentStatusAwaitingPayment

		if fastPath {
			ok, err := uc.orderRepo.UpdateStatus(ctx, tx, order.OrderID, cancellableStatuses, domain.OrderStatusCancelled)
			if err != nil {
				return fmt.Errorf("failed to cancel order: %w", err)
			}
			if !ok {
				return domain.ErrConflict
			}
			if err := restockItems(ctx, tx, uc.itemRepo, uc.inventoryRepo, order.OrderID); err != nil {
				return err
			}
			entry := domain.NewStatusHistory(order.OrderID, string(domain.OrderStatusCancelled), cmd.BuyerID,
				"Cancelled within grace window: "+cmd.Reason, now)
			if err := uc.historyRepo.Append(ctx, tx, entry); err != nil {
				return fmt.Errorf("failed to append status history: %w", err)
			}
			result = &CancelResultDTO{OrderID: order.OrderID, Status: domain.OrderStatusCancelled}
			return nil
		}

		ok, err := uc.orderRepo.UpdateStatus(ctx, tx, order.OrderID, cancellableStatuses, domain.OrderStatusCancellationRequested)
		if err != nil {
			return fmt.Errorf("failed to request cancellation: %w", err)
		}
		if !ok {
			return domain.ErrConflict
		}
		entry := domain.NewStatusHistory(order.OrderID, string(domain.OrderStatusCancellationRequested), cmd.BuyerID,
			"Cancellation requested: "+cmd.Reason, now)
		if err := uc.historyRepo.Append(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
		result = &CancelResultDTO{OrderID: order.OrderID, Status: domain.OrderStatusCancellationRequested}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Cancellation request handled",
		zap.String("orderID", result.OrderID.String()),
		zap.String("status", string(result.Status)),
	)
	return result, nil
}

// ProcessCancellationDTO is the reviewer's decision on a pending request.
type ProcessCancellationDTO struct {
	OrderID  uuid.UUID
	ActorID  uuid.UUID
	Approved bool
	Notes    string
}

// ProcessCancellationUseCase resolves a cancellation_requested order.
// Approval cancels, restocks and mirrors every completed payment with a
// processing refund row; rejection reverts to the status the order held
// before the request.
type ProcessCancellationUseCase struct {
	orderRepo     domain.OrderRepository
	itemRepo      domain.OrderItemRepository
	historyRepo   domain.StatusHistoryRepository
	inventoryRepo domain.InventoryRepository
	paymentRepo   domain.PaymentRepository
	txRunner      db.TxRunner
	clk           clock.Clock
}

func NewProcessCancellationUseCase(
	orderRepo domain.OrderRepository,
	itemRepo domain.OrderItemRepository,
	historyRepo domain.StatusHistoryRepository,
	inventoryRepo domain.InventoryRepository,
	paymentRepo domain.PaymentRepository,
	txRunner db.TxRunner,
	clk clock.Clock,
) *ProcessCancellationUseCase {
	return &ProcessCancellationUseCase{
		orderRepo:     orderRepo,
		itemRepo:      itemRepo,
		historyRepo:   historyRepo,
		inventoryRepo: inventoryRepo,
		paymentRepo:   paymentRepo,
		txRunner:      txRunner,
		clk:           clk,
	}
}

func (uc *ProcessCancellationUseCase) Execute(ctx context.Context, cmd ProcessCancellationDTO) (*CancelResultDTO, error) {
	var result *CancelResultDTO
	err := uc.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		order, err := uc.orderRepo.GetByIDForUpdate(ctx, tx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusCancellationRequested {
			return fmt.Errorf("%w: status is %s", domain.ErrNotPendingDecision, order.Status)
		}

		now := uc.clk.Now()
		expected := []domain.OrderStatus{domain.OrderStatusCancellationRequested}

		if cmd.Approved {
			ok, err := uc.orderRepo.UpdateStatus(ctx, tx, order.OrderID, expected, domain.OrderStatusCancelled)
			if err != nil {
				return fmt.Errorf("failed to cancel order: %w", err)
			}
			if !ok {
				return domain.ErrConflict
			}
			if err := restockItems(ctx, tx, uc.itemRepo, uc.inventoryRepo, order.OrderID); err != nil {
				return err
			}

			charges, err := uc.paymentRepo.ListCompletedCharges(ctx, tx, order.OrderID)
			if err != nil {
				return fmt.Errorf("failed to load completed payments: %w", err)
			}
			for _, charge := range charges {
				refund := domain.NewRefund(charge, "rfnd_"+uuid.NewString())
				refund.CreatedAt = now
				if err := uc.paymentRepo.Insert(ctx, tx, refund); err != nil {
					return fmt.Errorf("failed to insert refund: %w", err)
				}
				log.Info("Refund issued",
					zap.String("orderID", order.OrderID.String()),
					zap.String("paymentID", charge.PaymentID.String()),
					zap.String("amount", refund.Amount.String()),
				)
			}

			entry := domain.NewStatusHistory(order.OrderID, string(domain.OrderStatusCancelled), cmd.ActorID,
				"Cancellation approved: "+cmd.Notes, now)
			if err := uc.historyRepo.Append(ctx, tx, entry); err != nil {
				return fmt.Errorf("failed to append status history: %w", err)
			}
			result = &CancelResultDTO{OrderID: order.OrderID, Status: domain.OrderStatusCancelled}
			return nil
		}

		prior, err := uc.priorStatus(ctx, tx, order.OrderID)
		if err != nil {
			return err
		}
		ok, err := uc.orderRepo.UpdateStatus(ctx, tx, order.OrderID, expected, prior)
		if err != nil {
			return fmt.Errorf("failed to revert order status: %w", err)
		}
		if !ok {
			return domain.ErrConflict
		}
		entry := domain.NewStatusHistory(order.OrderID, "cancellation_rejected", cmd.ActorID,
			"Cancellation rejected: "+cmd.Notes, now)
		if err := uc.historyRepo.Append(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
		result = &CancelResultDTO{OrderID: order.OrderID, Status: prior}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Cancellation decision processed",
		zap.String("orderID", result.OrderID.String()),
		zap.String("status", string(result.Status)),
		zap.Bool("approved", cmd.Approved),
	)
	return result, nil
}

// priorStatus walks the audit trail backwards for the status the order held
// before the cancellation request. Only statuses a request can be made from
// qualify; the creation entry counts as pending. Orders with no usable entry
// fall back to processing.
func (uc *ProcessCancellationUseCase) priorStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (domain.OrderStatus, error) {
	entries, err := uc.historyRepo.ListByOrderTx(ctx, tx, orderID)
	if err != nil {
		return "", fmt.Errorf("failed to load status history: %w", err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Status == domain.HistoryStatusCreated {
			return domain.OrderStatusPending, nil
		}
		switch s := domain.OrderStatus(entries[i].Status); s {
		case domain.OrderStatusPending, domain.OrderStatusProcessing, domain.OrderStatusAwaitingPayment:
			return s, nil
		}
	}
	return domain.OrderStatusProcessing, nil
}

// restockItems returns every non-auction-win item's quantity to its
// inventory row. Auction wins have no stock to return.
func restockItems(
	ctx context.Context,
	tx pgx.Tx,
	itemRepo domain.OrderItemRepository,
	inventoryRepo domain.InventoryRepository,
	orderID uuid.UUID,
) error {
	items, err := itemRepo.ListByOrderTx(ctx, tx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	for _, item := range items {
		if item.IsAuctionWin || item.InventoryID == nil {
			continue
		}
		if err := inventoryRepo.Restock(ctx, tx, *item.InventoryID, item.Quantity); err != nil {
			return fmt.Errorf("failed to restock inventory: %w", err)
		}
	}
	return nil
}
