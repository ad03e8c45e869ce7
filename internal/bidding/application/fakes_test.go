package application

import (
	"context"
	"sort"
	"time"

	"github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	catalogdomain "github.com/cristianortiz/marketplaceEngine/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// fakeTxRunner executes the function directly; the fakes below ignore the
// nil transaction.
type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeAuctionRepo struct {
	auctions map[uuid.UUID]*domain.Auction
}

func newFakeAuctionRepo(auctions ...*domain.Auction) *fakeAuctionRepo {
	repo := &fakeAuctionRepo{auctions: make(map[uuid.UUID]*domain.Auction)}
	for _, a := range auctions {
		cp := *a
		repo.auctions[a.AuctionID] = &cp
	}
	return repo
}

func (r *fakeAuctionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	a, ok := r.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAuctionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Auction, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAuctionRepo) Save(ctx context.Context, tx pgx.Tx, auction *domain.Auction) error {
	cp := *auction
	r.auctions[auction.AuctionID] = &cp
	return nil
}

func (r *fakeAuctionRepo) GetOpenAuctions(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	var open []*domain.Auction
	for _, a := range r.auctions {
		if !a.IsClosed && a.EndTime.After(now) {
			cp := *a
			open = append(open, &cp)
		}
	}
	return open, nil
}

func (r *fakeAuctionRepo) GetExpiredAuctions(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	var expired []*domain.Auction
	for _, a := range r.auctions {
		if !a.IsClosed && !a.EndTime.After(now) {
			cp := *a
			expired = append(expired, &cp)
		}
	}
	return expired, nil
}

type fakeBidRepo struct {
	bids map[uuid.UUID]*domain.Bid
}

func newFakeBidRepo(bids ...*domain.Bid) *fakeBidRepo {
	repo := &fakeBidRepo{bids: make(map[uuid.UUID]*domain.Bid)}
	for _, b := range bids {
		cp := *b
		repo.bids[b.BidID] = &cp
	}
	return repo
}

func (r *fakeBidRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	b, ok := r.bids[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBidRepo) GetWinningByProduct(ctx context.Context, productID uuid.UUID) (*domain.Bid, error) {
	for _, b := range r.bids {
		if b.ProductID == productID && b.IsWinning {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBidRepo) GetWinningForUpdate(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (*domain.Bid, error) {
	return r.GetWinningByProduct(ctx, productID)
}

func (r *fakeBidRepo) GetByBidder(ctx context.Context, tx pgx.Tx, productID, bidderID uuid.UUID) (*domain.Bid, error) {
	for _, b := range r.bids {
		if b.ProductID == productID && b.BidderID == bidderID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBidRepo) Save(ctx context.Context, tx pgx.Tx, bid *domain.Bid) error {
	cp := *bid
	r.bids[bid.BidID] = &cp
	return nil
}

func (r *fakeBidRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Bid, error) {
	var bids []*domain.Bid
	for _, b := range r.bids {
		if b.ProductID == productID {
			cp := *b
			bids = append(bids, &cp)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].BidTime.Before(bids[j].BidTime) })
	return bids, nil
}

func (r *fakeBidRepo) ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*domain.Bid, error) {
	var bids []*domain.Bid
	for _, b := range r.bids {
		if b.BidderID == bidderID {
			cp := *b
			bids = append(bids, &cp)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].BidTime.After(bids[j].BidTime) })
	return bids, nil
}

func (r *fakeBidRepo) ListAutoBidCandidates(ctx context.Context, tx pgx.Tx, productID uuid.UUID) ([]*domain.Bid, error) {
	var bids []*domain.Bid
	for _, b := range r.bids {
		if b.ProductID == productID && b.IsAutoBid && !b.IsWinning {
			cp := *b
			bids = append(bids, &cp)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].BidTime.Before(bids[j].BidTime) })
	return bids, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalogdomain.Product
}

func newFakeProductRepo(products ...*catalogdomain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[uuid.UUID]*catalogdomain.Product)}
	for _, p := range products {
		cp := *p
		repo.products[p.ProductID] = &cp
	}
	return repo
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalogdomain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

type notification struct {
	UserID  uuid.UUID
	Message string
}

type fakeNotifier struct {
	sent []notification
}

func (n *fakeNotifier) Notify(userID uuid.UUID, message string) {
	n.sent = append(n.sent, notification{UserID: userID, Message: message})
}

func (n *fakeNotifier) sentTo(userID uuid.UUID) int {
	count := 0
	for _, msg := range n.sent {
		if msg.UserID == userID {
			count++
		}
	}
	return count
}
