package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/clock"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// UpdateOrderDTO carries the editable order fields. Nil pointers mean the
// field was not submitted.
type UpdateOrderDTO struct {
	OrderID           uuid.UUID
	BuyerID           uuid.UUID
	ShippingAddressID *uuid.UUID
	BillingAddressID  *uuid.UUID
	Notes             *string
}

// UpdateOrderUseCase changes the small allow-list of order details that stay
// editable before fulfilment starts. Totals, items and statuses are out of
// reach here.
type UpdateOrderUseCase struct {
	orderRepo   domain.OrderRepository
	historyRepo domain.StatusHistoryRepository
	txRunner    db.TxRunner
	clk         clock.Clock
}

func NewUpdateOrderUseCase(
	orderRepo domain.OrderRepository,
	historyRepo domain.StatusHistoryRepository,
	txRunner db.TxRunner,
	clk clock.Clock,
) *UpdateOrderUseCase {
	return &UpdateOrderUseCase{
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		txRunner:    txRunner,
		clk:         clk,
	}
}

func (uc *UpdateOrderUseCase) Execute(ctx context.Context, cmd UpdateOrderDTO) error {
	if cmd.ShippingAddressID == nil && cmd.BillingAddressID == nil && cmd.Notes == nil {
		return domain.ErrNoChanges
	}

	return uc.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		order, err := uc.orderRepo.GetByIDForUpdate(ctx, tx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order.BuyerID != cmd.BuyerID {
			return domain.ErrUnauthorizedBuyer
		}
		if !order.Status.Editable() {
			return fmt.Errorf("%w: status is %s", domain.ErrOrderNotEditable, order.Status)
		}

		changed := false
		if cmd.ShippingAddressID != nil && *cmd.ShippingAddressID != order.ShippingAddressID {
			order.ShippingAddressID = *cmd.ShippingAddressID
			changed = true
		}
		if cmd.BillingAddressID != nil && *cmd.BillingAddressID != order.BillingAddressID {
			order.BillingAddressID = *cmd.BillingAddressID
			changed = true
		}
		if cmd.Notes != nil && *cmd.Notes != order.Notes {
			order.Notes = *cmd.Notes
			changed = true
		}
		if !changed {
			return domain.ErrNoChanges
		}

		ok, err := uc.orderRepo.UpdateDetails(ctx, tx, order, order.Status)
		if err != nil {
			return fmt.Errorf("failed to update order details: %w", err)
		}
		if !ok {
			return domain.ErrConflict
		}

		entry := domain.NewStatusHistory(order.OrderID, string(order.Status), cmd.BuyerID, "Order details updated", uc.clk.Now())
		if err := uc.historyRepo.Append(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}

		log.Info("Order details updated", zap.String("orderID", order.OrderID.String()))
		return nil
	})
}
