package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/db"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/notifier"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// AuctionResultDTO reports the outcome of closing an auction.
type AuctionResultDTO struct {
	AuctionID uuid.UUID  `json:"auction_id"`
	WinnerID  *uuid.UUID `json:"winner_id,omitempty"`
	BidCount  int        `json:"bid_count"`
}

// CloseAuctionUseCase closes an auction at its end time and determines the
// winner from the winning bid. Idempotent: closing an already-closed auction
// returns its recorded outcome and emits no notifications.
type CloseAuctionUseCase struct {
	auctionRepo domain.AuctionRepository
	bidRepo     domain.BidRepository
	txRunner    db.TxRunner
	notify      notifier.Notifier
}

func NewCloseAuctionUseCase(
	auctionRepo domain.AuctionRepository,
	bidRepo domain.BidRepository,
	txRunner db.TxRunner,
	notify notifier.Notifier,
) *CloseAuctionUseCase {
	return &CloseAuctionUseCase{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		txRunner:    txRunner,
		notify:      notify,
	}
}

func (uc *CloseAuctionUseCase) Execute(ctx context.Context, auctionID uuid.UUID) (*AuctionResultDTO, error) {
	var (
		result      *AuctionResultDTO
		sellerID    uuid.UUID
		reserveMet  bool
		newlyClosed bool
	)

	err := uc.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		auction, err := uc.auctionRepo.GetByIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if auction.IsClosed {
			result = &AuctionResultDTO{
				AuctionID: auction.AuctionID,
				WinnerID:  auction.WinnerID,
				BidCount:  auction.BidCount,
			}
			return nil
		}

		winning, err := uc.bidRepo.GetWinningForUpdate(ctx, tx, auction.ProductID)
		if err != nil {
			return err
		}
		auction.Close(winning)
		if err := uc.auctionRepo.Save(ctx, tx, auction); err != nil {
			return fmt.Errorf("failed to save closed auction: %w", err)
		}

		sellerID = auction.SellerID
		reserveMet = auction.ReserveMet()
		newlyClosed = true
		result = &AuctionResultDTO{
			AuctionID: auction.AuctionID,
			WinnerID:  auction.WinnerID,
			BidCount:  auction.BidCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newlyClosed {
		if result.WinnerID != nil {
			uc.notify.Notify(*result.WinnerID, "Congratulations, you won the auction.")
		}
		sellerMsg := "Your auction has ended."
		if result.WinnerID != nil && !reserveMet {
			sellerMsg = "Your auction has ended below the reserve price."
		}
		uc.notify.Notify(sellerID, sellerMsg)
		log.Info("Auction closed",
			zap.String("auctionID", auctionID.String()),
			zap.Bool("hasWinner", result.WinnerID != nil),
			zap.Bool("reserveMet", reserveMet),
		)
	}
	return result, nil
}
