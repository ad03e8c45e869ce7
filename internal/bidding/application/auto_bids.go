package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/clock"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/db"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/notifier"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// maxAutoBidRounds bounds the per-product resolution loop. The loop already
// terminates on its own (every round raises the winning amount by at least
// the increment, bounded by the highest ceiling); the cap guards against a
// misconfigured zero increment.
const maxAutoBidRounds = 100

// ProcessAutoBidsUseCase raises losing auto-bidders back into the lead, one
// locked transaction per raise, until no auto-bidder below its ceiling
// remains outbid. Ties between eligible auto-bidders go to the earliest
// placed bid.
type ProcessAutoBidsUseCase struct {
	auctionRepo domain.AuctionRepository
	bidRepo     domain.BidRepository
	txRunner    db.TxRunner
	clk         clock.Clock
	notify      notifier.Notifier
}

func NewProcessAutoBidsUseCase(
	auctionRepo domain.AuctionRepository,
	bidRepo domain.BidRepository,
	txRunner db.TxRunner,
	clk clock.Clock,
	notify notifier.Notifier,
) *ProcessAutoBidsUseCase {
	return &ProcessAutoBidsUseCase{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		txRunner:    txRunner,
		clk:         clk,
		notify:      notify,
	}
}

// Execute iterates every open auction and resolves its product's auto-bids.
// Returns the total number of raises applied.
func (uc *ProcessAutoBidsUseCase) Execute(ctx context.Context) (int, error) {
	auctions, err := uc.auctionRepo.GetOpenAuctions(ctx, uc.clk.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list open auctions: %w", err)
	}

	total := 0
	for _, auction := range auctions {
		raises, err := uc.ResolveProduct(ctx, auction.AuctionID)
		if err != nil {
			log.Error("Auto-bid resolution failed for auction",
				zap.String("auctionID", auction.AuctionID.String()),
				zap.Error(err),
			)
			continue
		}
		total += raises
	}
	return total, nil
}

// ResolveProduct runs the fixed-point resolution for one auction's product.
// Each raise reuses the same locked-transaction discipline as manual bid
// placement.
func (uc *ProcessAutoBidsUseCase) ResolveProduct(ctx context.Context, auctionID uuid.UUID) (int, error) {
	raises := 0
	for round := 0; round < maxAutoBidRounds; round++ {
		var (
			done   bool
			outbid *domain.Bid
			raised *domain.Bid
		)

		err := uc.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
			auction, err := uc.auctionRepo.GetByIDForUpdate(ctx, tx, auctionID)
			if err != nil {
				return err
			}
			if auction.IsClosed || auction.HasEnded(uc.clk.Now()) {
				done = true
				return nil
			}

			highest, err := uc.bidRepo.GetWinningForUpdate(ctx, tx, auction.ProductID)
			if err != nil {
				return err
			}
			// A losing auto-bidder implies a winning bid exists.
			if highest == nil {
				done = true
				return nil
			}

			required := auction.MinimumBid(highest)

			candidates, err := uc.bidRepo.ListAutoBidCandidates(ctx, tx, auction.ProductID)
			if err != nil {
				return err
			}
			var pick *domain.Bid
			for _, cand := range candidates {
				if cand.CanAutoRaiseTo(required) {
					pick = cand
					break
				}
			}
			if pick == nil {
				done = true
				return nil
			}

			highest.MarkOutbid()
			if err := uc.bidRepo.Save(ctx, tx, highest); err != nil {
				return fmt.Errorf("failed to demote previous winning bid: %w", err)
			}

			// BidTime is deliberately left untouched so the earliest-bid
			// tie-break stays stable across rounds.
			pick.Amount = required
			pick.IsWinning = true
			if err := uc.bidRepo.Save(ctx, tx, pick); err != nil {
				return fmt.Errorf("failed to raise auto-bid: %w", err)
			}

			auction.RecordHighestBid(pick)
			if err := uc.auctionRepo.Save(ctx, tx, auction); err != nil {
				return fmt.Errorf("failed to save updated auction: %w", err)
			}

			outbid = highest
			raised = pick
			return nil
		})
		if err != nil {
			return raises, err
		}
		if done {
			return raises, nil
		}

		raises++
		uc.notify.Notify(outbid.BidderID, "You have been outbid on a product you were winning.")
		if raised.AtCeiling() {
			uc.notify.Notify(raised.BidderID, "You have reached your maximum auto-bid amount.")
		}
		log.Info("Auto-bid raised",
			zap.String("auctionID", auctionID.String()),
			zap.String("bidID", raised.BidID.String()),
			zap.String("amount", raised.Amount.String()),
		)
	}
	return raises, nil
}
