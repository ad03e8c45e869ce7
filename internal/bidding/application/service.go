package application

import (
	"context"

	"github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	"github.com/google/uuid"
)

// BiddingService is the application interface of the bidding module,
// exposing its use cases to the outer layers.
type BiddingService interface {
	PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*BidResultDTO, error)
	CheckBidStatus(ctx context.Context, bidID, bidderID uuid.UUID) (*BidStatusDTO, error)
	CloseAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionResultDTO, error)
	ProcessPendingAutoBids(ctx context.Context) (int, error)
	ListBidsByBidder(ctx context.Context, bidderID uuid.UUID) ([]*domain.Bid, error)
	ListBidsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Bid, error)
}

type biddingService struct {
	placeBidUC    *PlaceBidUseCase
	checkStatusUC *CheckBidStatusUseCase
	closeUC       *CloseAuctionUseCase
	autoBidsUC    *ProcessAutoBidsUseCase
	bidRepo       domain.BidRepository
}

func NewBiddingService(
	placeBidUC *PlaceBidUseCase,
	checkStatusUC *CheckBidStatusUseCase,
	closeUC *CloseAuctionUseCase,
	autoBidsUC *ProcessAutoBidsUseCase,
	bidRepo domain.BidRepository,
) BiddingService {
	return &biddingService{
		placeBidUC:    placeBidUC,
		checkStatusUC: checkStatusUC,
		closeUC:       closeUC,
		autoBidsUC:    autoBidsUC,
		bidRepo:       bidRepo,
	}
}

func (s *biddingService) PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*BidResultDTO, error) {
	return s.placeBidUC.Execute(ctx, cmd)
}

func (s *biddingService) CheckBidStatus(ctx context.Context, bidID, bidderID uuid.UUID) (*BidStatusDTO, error) {
	return s.checkStatusUC.Execute(ctx, bidID, bidderID)
}

func (s *biddingService) CloseAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionResultDTO, error) {
	return s.closeUC.Execute(ctx, auctionID)
}

func (s *biddingService) ProcessPendingAutoBids(ctx context.Context) (int, error) {
	return s.autoBidsUC.Execute(ctx)
}

func (s *biddingService) ListBidsByBidder(ctx context.Context, bidderID uuid.UUID) ([]*domain.Bid, error) {
	return s.bidRepo.ListByBidder(ctx, bidderID)
}

func (s *biddingService) ListBidsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Bid, error) {
	return s.bidRepo.ListByProduct(ctx, productID)
}
