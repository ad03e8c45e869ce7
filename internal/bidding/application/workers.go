package application

import (
	"context"
	"time"

	"github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/clock"
	"go.uber.org/zap"
)

// AuctionCloser is the background worker that closes auctions whose end time
// has elapsed.
type AuctionCloser struct {
	auctionRepo domain.AuctionRepository
	closeUC     *CloseAuctionUseCase
	clk         clock.Clock
	interval    time.Duration
}

func NewAuctionCloser(
	auctionRepo domain.AuctionRepository,
	closeUC *CloseAuctionUseCase,
	clk clock.Clock,
	interval time.Duration,
) *AuctionCloser {
	return &AuctionCloser{
		auctionRepo: auctionRepo,
		closeUC:     closeUC,
		clk:         clk,
		interval:    interval,
	}
}

// Run polls for expired auctions until ctx is cancelled.
func (w *AuctionCloser) Run(ctx context.Context) {
	log.Info("Auction closer started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Auction closer shutting down")
			return
		case <-ticker.C:
			w.closeExpired(ctx)
		}
	}
}

func (w *AuctionCloser) closeExpired(ctx context.Context) {
	expired, err := w.auctionRepo.GetExpiredAuctions(ctx, w.clk.Now())
	if err != nil {
		log.Error("Failed to list expired auctions", zap.Error(err))
		return
	}
	for _, auction := range expired {
		if _, err := w.closeUC.Execute(ctx, auction.AuctionID); err != nil {
			log.Error("Failed to close expired auction",
				zap.String("auctionID", auction.AuctionID.String()),
				zap.Error(err),
			)
		}
	}
}

// AutoBidWorker is the background worker that periodically resolves pending
// auto-bids across all open auctions.
type AutoBidWorker struct {
	processUC *ProcessAutoBidsUseCase
	interval  time.Duration
}

func NewAutoBidWorker(processUC *ProcessAutoBidsUseCase, interval time.Duration) *AutoBidWorker {
	return &AutoBidWorker{processUC: processUC, interval: interval}
}

// Run processes auto-bids on every tick until ctx is cancelled.
func (w *AutoBidWorker) Run(ctx context.Context) {
	log.Info("Auto-bid worker started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Auto-bid worker shutting down")
			return
		case <-ticker.C:
			raises, err := w.processUC.Execute(ctx)
			if err != nil {
				log.Error("Auto-bid processing failed", zap.Error(err))
				continue
			}
			if raises > 0 {
				log.Info("Auto-bid processing pass completed", zap.Int("raises", raises))
			}
		}
	}
}
