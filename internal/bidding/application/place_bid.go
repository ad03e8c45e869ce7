package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	catalogdomain "github.com/cristianortiz/marketplaceEngine/internal/catalog/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/clock"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/db"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/logger"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/notifier"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// PlaceBidDTO is the input for the PlaceBid use case.
type PlaceBidDTO struct {
	AuctionID        uuid.UUID
	ProductID        uuid.UUID
	BidderID         uuid.UUID
	Amount           decimal.Decimal
	IsAutoBid        bool
	MaxAutoBidAmount *decimal.Decimal
	IPAddress        string
	DeviceInfo       string
}

// BidResultDTO reports the accepted bid back to the caller with the exact
// amount recorded.
type BidResultDTO struct {
	BidID     uuid.UUID       `json:"bid_id"`
	IsWinning bool            `json:"is_winning"`
	Amount    decimal.Decimal `json:"bid_amount"`
}

// PlaceBidUseCase applies a single bid against an auction inside one
// transaction, keeping exactly one bid per product winning and the
// auction's denormalized highest-bid fields in step with the winning row.
type PlaceBidUseCase struct {
	auctionRepo domain.AuctionRepository
	bidRepo     domain.BidRepository
	productRepo catalogdomain.ProductRepository
	txRunner    db.TxRunner
	clk         clock.Clock
	notify      notifier.Notifier
}

func NewPlaceBidUseCase(
	auctionRepo domain.AuctionRepository,
	bidRepo domain.BidRepository,
	productRepo catalogdomain.ProductRepository,
	txRunner db.TxRunner,
	clk clock.Clock,
	notify notifier.Notifier,
) *PlaceBidUseCase {
	return &PlaceBidUseCase{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		productRepo: productRepo,
		txRunner:    txRunner,
		clk:         clk,
		notify:      notify,
	}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, cmd PlaceBidDTO) (*BidResultDTO, error) {
	log.Info("Executing PlaceBidUseCase",
		zap.String("auctionID", cmd.AuctionID.String()),
		zap.String("productID", cmd.ProductID.String()),
		zap.String("bidderID", cmd.BidderID.String()),
		zap.String("amount", cmd.Amount.String()),
	)

	if !cmd.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if cmd.IsAutoBid {
		if cmd.MaxAutoBidAmount == nil || !cmd.MaxAutoBidAmount.IsPositive() {
			return nil, domain.ErrInvalidAutoBidConfig
		}
		if cmd.Amount.GreaterThan(*cmd.MaxAutoBidAmount) {
			return nil, domain.ErrInvalidAutoBidConfig
		}
	}

	var (
		result    *BidResultDTO
		outbid    *domain.Bid
		atCeiling bool
	)

	err := uc.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		auction, err := uc.auctionRepo.GetByIDForUpdate(ctx, tx, cmd.AuctionID)
		if err != nil {
			return err
		}
		if auction.IsClosed || auction.HasEnded(uc.clk.Now()) {
			return domain.ErrAuctionClosed
		}

		product, err := uc.productRepo.GetByID(ctx, cmd.ProductID)
		if err != nil {
			if errors.Is(err, catalogdomain.ErrProductNotFound) {
				return domain.ErrProductNotEligible
			}
			return err
		}
		if !product.IsAuction || auction.ProductID != cmd.ProductID {
			return domain.ErrProductNotEligible
		}

		highest, err := uc.bidRepo.GetWinningForUpdate(ctx, tx, cmd.ProductID)
		if err != nil {
			return err
		}

		minimum := auction.MinimumBid(highest)
		if cmd.Amount.LessThan(minimum) {
			e := &domain.BidTooLowError{MinimumRequired: minimum}
			if highest != nil {
				amount := highest.Amount
				e.CurrentHighestBid = &amount
			}
			return e
		}

		// The bidder already holds the winning bid: the only change allowed
		// is raising their own auto-bid ceiling. Self-outbidding is not.
		if highest != nil && highest.BidderID == cmd.BidderID {
			if cmd.IsAutoBid && highest.IsAutoBid && highest.MaxAutoBidAmount != nil &&
				cmd.MaxAutoBidAmount.GreaterThan(*highest.MaxAutoBidAmount) {
				highest.MaxAutoBidAmount = cmd.MaxAutoBidAmount
				if err := uc.bidRepo.Save(ctx, tx, highest); err != nil {
					return fmt.Errorf("failed to raise auto-bid ceiling: %w", err)
				}
				result = &BidResultDTO{BidID: highest.BidID, IsWinning: true, Amount: highest.Amount}
				return nil
			}
			return domain.ErrAlreadyHighestBidder
		}

		if highest != nil {
			highest.MarkOutbid()
			if err := uc.bidRepo.Save(ctx, tx, highest); err != nil {
				return fmt.Errorf("failed to demote previous winning bid: %w", err)
			}
			outbid = highest
		}

		// Locate-or-create the bidder's row and record the literal amount,
		// never a computed "just above" value.
		bid, err := uc.bidRepo.GetByBidder(ctx, tx, cmd.ProductID, cmd.BidderID)
		if err != nil {
			return err
		}
		if bid == nil {
			bid = domain.NewBid(cmd.AuctionID, cmd.ProductID, cmd.BidderID, cmd.Amount, uc.clk.Now())
		} else {
			bid.Amount = cmd.Amount
			bid.BidTime = uc.clk.Now()
		}
		bid.IsAutoBid = cmd.IsAutoBid
		bid.MaxAutoBidAmount = nil
		if cmd.IsAutoBid {
			bid.MaxAutoBidAmount = cmd.MaxAutoBidAmount
		}
		bid.IPAddress = cmd.IPAddress
		bid.DeviceInfo = cmd.DeviceInfo
		bid.IsWinning = true

		if err := uc.bidRepo.Save(ctx, tx, bid); err != nil {
			return fmt.Errorf("failed to save bid: %w", err)
		}

		auction.RecordHighestBid(bid)
		if err := uc.auctionRepo.Save(ctx, tx, auction); err != nil {
			return fmt.Errorf("failed to save updated auction: %w", err)
		}

		atCeiling = bid.AtCeiling()
		result = &BidResultDTO{BidID: bid.BidID, IsWinning: true, Amount: bid.Amount}
		return nil
	})
	if err != nil {
		log.Warn("PlaceBidUseCase: bid rejected",
			zap.String("auctionID", cmd.AuctionID.String()),
			zap.String("bidderID", cmd.BidderID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	// Notifications stay outside the critical path: the transaction is
	// already committed when these fire.
	if outbid != nil {
		uc.notify.Notify(outbid.BidderID, "You have been outbid on a product you were winning.")
	}
	if atCeiling {
		uc.notify.Notify(cmd.BidderID, "You have reached your maximum auto-bid amount.")
	}

	log.Info("Bid placed successfully",
		zap.String("bidID", result.BidID.String()),
		zap.String("amount", result.Amount.String()),
	)
	return result, nil
}
