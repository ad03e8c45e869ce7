package application

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/cristianortiz/marketplaceEngine/internal/catalog/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/clock"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/db"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// ShippingCalculator computes the shipping cost for an order. Provided by an
// external collaborator; when it fails or is absent the configured default
// applies.
type ShippingCalculator func(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (decimal.Decimal, error)

// OrderItemDTO is one requested line of a new order.
type OrderItemDTO struct {
	ProductID    uuid.UUID
	Quantity     int
	IsAuctionWin bool
	BidID        *uuid.UUID
}

// CreateOrderDTO is the input for the CreateOrder use case.
type CreateOrderDTO struct {
	BuyerID           uuid.UUID
	ShippingAddressID uuid.UUID
	BillingAddressID  uuid.UUID
	Currency          string
	Source            string
	Notes             string
	Items             []OrderItemDTO
}

// OrderResultDTO reports a created order back to the caller.
type OrderResultDTO struct {
	OrderID       uuid.UUID            `json:"order_id"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

// CreateOrderUseCase settles a cart into a committed order: each item
// consumes either inventory stock or a winning bid, totals are computed and
// everything commits or nothing does.
//
// Auction-win items take the referenced bid's amount as the unit price
// without re-checking that the bid is still the auction's winner or that
// the auction closed; the bidding and closing paths own that state.
type CreateOrderUseCase struct {
	orderRepo     domain.OrderRepository
	itemRepo      domain.OrderItemRepository
	historyRepo   domain.StatusHistoryRepository
	inventoryRepo domain.InventoryRepository
	products      domain.ProductReader
	bids          domain.BidReader
	txRunner      db.TxRunner
	clk           clock.Clock

	taxRate         decimal.Decimal
	defaultShipping decimal.Decimal
	shippingCalc    ShippingCalculator
}

func NewCreateOrderUseCase(
	orderRepo domain.OrderRepository,
	itemRepo domain.OrderItemRepository,
	historyRepo domain.StatusHistoryRepository,
	inventoryRepo domain.InventoryRepository,
	products domain.ProductReader,
	bids domain.BidReader,
	txRunner db.TxRunner,
	clk clock.Clock,
	taxRate decimal.Decimal,
	defaultShipping decimal.Decimal,
	shippingCalc ShippingCalculator,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:       orderRepo,
		itemRepo:        itemRepo,
		historyRepo:     historyRepo,
		inventoryRepo:   inventoryRepo,
		products:        products,
		bids:            bids,
		txRunner:        txRunner,
		clk:             clk,
		taxRate:         taxRate,
		defaultShipping: defaultShipping,
		shippingCalc:    shippingCalc,
	}
}

func (uc *CreateOrderUseCase) Execute(ctx context.Context, cmd CreateOrderDTO) (*OrderResultDTO, error) {
	if cmd.BuyerID == uuid.Nil {
		return nil, domain.ErrUnauthorizedBuyer
	}
	if len(cmd.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, item := range cmd.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if item.IsAuctionWin && item.BidID == nil {
			return nil, fmt.Errorf("%w: bid reference required for auction purchases", domain.ErrBidNotFound)
		}
	}

	var result *OrderResultDTO
	err := uc.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		order := &domain.Order{
			OrderID:           uuid.New(),
			BuyerID:           cmd.BuyerID,
			Status:            domain.OrderStatusPending,
			PaymentStatus:     domain.PaymentStatusAwaitingPayment,
			TotalAmount:       decimal.Zero,
			TaxAmount:         decimal.Zero,
			ShippingCost:      decimal.Zero,
			Currency:          cmd.Currency,
			ShippingAddressID: cmd.ShippingAddressID,
			BillingAddressID:  cmd.BillingAddressID,
			Notes:             cmd.Notes,
			Source:            cmd.Source,
			CreatedAt:         uc.clk.Now(),
		}
		if err := uc.orderRepo.Insert(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		subtotalSum := decimal.Zero
		taxSum := decimal.Zero
		items := make([]*domain.OrderItem, 0, len(cmd.Items))

		for _, req := range cmd.Items {
			product, err := uc.products.GetByID(ctx, req.ProductID)
			if err != nil {
				if errors.Is(err, catalogdomain.ErrProductNotFound) {
					return fmt.Errorf("%w: %s", catalogdomain.ErrProductNotFound, req.ProductID)
				}
				return err
			}

			item := &domain.OrderItem{
				OrderItemID:    uuid.New(),
				OrderID:        order.OrderID,
				ProductID:      product.ProductID,
				Quantity:       req.Quantity,
				IsAuctionWin:   req.IsAuctionWin,
				DiscountAmount: decimal.Zero,
				Status:         "pending",
				CreatedAt:      uc.clk.Now(),
			}

			var price decimal.Decimal
			if req.IsAuctionWin {
				bid, err := uc.bids.GetByID(ctx, *req.BidID)
				if err != nil {
					return err
				}
				if bid == nil {
					return fmt.Errorf("%w: %s", domain.ErrBidNotFound, *req.BidID)
				}
				item.BidID = req.BidID
				price = bid.Amount
			} else {
				inventory, err := uc.inventoryRepo.GetByProductID(ctx, tx, product.ProductID)
				if err != nil {
					return err
				}
				if inventory == nil || inventory.Quantity < req.Quantity {
					return fmt.Errorf("%w for product: %s", domain.ErrInsufficientInventory, product.Title)
				}
				ok, err := uc.inventoryRepo.DecrementStock(ctx, tx, inventory.InventoryID, req.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w for product: %s", domain.ErrInsufficientInventory, product.Title)
				}
				item.InventoryID = &inventory.InventoryID
				price = product.BasePrice
			}

			item.PriceAtPurchase = price
			item.Subtotal = price.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)
			item.TaxAmount = item.Subtotal.Mul(uc.taxRate).Round(2)

			if err := uc.itemRepo.Insert(ctx, tx, item); err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}

			subtotalSum = subtotalSum.Add(item.Subtotal)
			taxSum = taxSum.Add(item.TaxAmount)
			items = append(items, item)
		}

		shipping := uc.defaultShipping
		if uc.shippingCalc != nil {
			if cost, err := uc.shippingCalc(ctx, order, items); err == nil {
				shipping = cost
			} else {
				log.Warn("Shipping calculator failed, using default cost",
					zap.String("orderID", order.OrderID.String()),
					zap.Error(err),
				)
			}
		}

		order.ShippingCost = shipping
		order.TaxAmount = taxSum
		order.TotalAmount = subtotalSum.Add(taxSum).Add(shipping)
		if err := uc.orderRepo.UpdateTotals(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to update order totals: %w", err)
		}

		entry := domain.NewStatusHistory(order.OrderID, domain.HistoryStatusCreated, cmd.BuyerID, "Order created", uc.clk.Now())
		if err := uc.historyRepo.Append(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}

		result = &OrderResultDTO{
			OrderID:       order.OrderID,
			TotalAmount:   order.TotalAmount,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Order created",
		zap.String("orderID", result.OrderID.String()),
		zap.String("total", result.TotalAmount.String()),
	)
	return result, nil
}
