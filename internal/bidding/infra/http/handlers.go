package http

import (
	"errors"

	"github.com/cristianortiz/marketplaceEngine/internal/bidding/application"
	"github.com/cristianortiz/marketplaceEngine/internal/bidding/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/httpserver"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// BiddingHandler exposes the bidding use cases over HTTP.
type BiddingHandler struct {
	service application.BiddingService
}

// NewBiddingHandler creates a new instance of BiddingHandler.
func NewBiddingHandler(service application.BiddingService) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// RegisterRoutes mounts the bidding routes on the app.
func (h *BiddingHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/bids", h.placeBid)
	app.Get("/bids", h.listMyBids)
	app.Get("/bids/:id/status", h.checkBidStatus)
	app.Get("/products/:id/bids", h.listProductBids)
	app.Post("/auctions/:id/close", h.closeAuction)
}

type placeBidRequest struct {
	AuctionID        uuid.UUID        `json:"auction_id"`
	ProductID        uuid.UUID        `json:"product_id"`
	Amount           decimal.Decimal  `json:"amount"`
	IsAutoBid        bool             `json:"is_auto_bid"`
	MaxAutoBidAmount *decimal.Decimal `json:"max_auto_bid_amount"`
}

func (h *BiddingHandler) placeBid(c *fiber.Ctx) error {
	bidderID, err := httpserver.Principal(c)
	if err != nil {
		return unauthorized(c)
	}

	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid request body", nil)
	}

	result, err := h.service.PlaceBid(c.Context(), application.PlaceBidDTO{
		AuctionID:        req.AuctionID,
		ProductID:        req.ProductID,
		BidderID:         bidderID,
		Amount:           req.Amount,
		IsAutoBid:        req.IsAutoBid,
		MaxAutoBidAmount: req.MaxAutoBidAmount,
		IPAddress:        c.IP(),
		DeviceInfo:       c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *BiddingHandler) checkBidStatus(c *fiber.Ctx) error {
	bidderID, err := httpserver.Principal(c)
	if err != nil {
		return unauthorized(c)
	}
	bidID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid bid id", nil)
	}

	status, err := h.service.CheckBidStatus(c.Context(), bidID, bidderID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(status)
}

func (h *BiddingHandler) listMyBids(c *fiber.Ctx) error {
	bidderID, err := httpserver.Principal(c)
	if err != nil {
		return unauthorized(c)
	}
	bids, err := h.service.ListBidsByBidder(c.Context(), bidderID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"bids": bids})
}

func (h *BiddingHandler) listProductBids(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid product id", nil)
	}
	bids, err := h.service.ListBidsByProduct(c.Context(), productID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"bids": bids})
}

func (h *BiddingHandler) closeAuction(c *fiber.Ctx) error {
	if _, err := httpserver.Principal(c); err != nil {
		return unauthorized(c)
	}
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid auction id", nil)
	}

	result, err := h.service.CloseAuction(c.Context(), auctionID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(result)
}

// mapError translates domain errors into tagged JSON failures. Unknown
// errors are logged in full and reported generically.
func (h *BiddingHandler) mapError(c *fiber.Ctx, err error) error {
	var tooLow *domain.BidTooLowError
	if errors.As(err, &tooLow) {
		diag := fiber.Map{"minimum_bid_required": tooLow.MinimumRequired}
		if tooLow.CurrentHighestBid != nil {
			diag["current_highest_bid"] = *tooLow.CurrentHighestBid
		}
		return failure(c, fiber.StatusConflict, "bid_too_low", err.Error(), diag)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidAutoBidConfig):
		return failure(c, fiber.StatusBadRequest, "validation", err.Error(), nil)
	case errors.Is(err, domain.ErrAuctionNotFound), errors.Is(err, domain.ErrBidNotFound):
		return failure(c, fiber.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, domain.ErrAuctionClosed),
		errors.Is(err, domain.ErrProductNotEligible),
		errors.Is(err, domain.ErrAlreadyHighestBidder):
		return failure(c, fiber.StatusConflict, "conflict", err.Error(), nil)
	}

	log.Error("bidding handler internal error", zap.Error(err))
	return failure(c, fiber.StatusInternalServerError, "internal", "internal server error", nil)
}

func unauthorized(c *fiber.Ctx) error {
	return failure(c, fiber.StatusUnauthorized, "unauthorized", "missing or invalid principal", nil)
}

func failure(c *fiber.Ctx, status int, kind, message string, diag fiber.Map) error {
	body := fiber.Map{"kind": kind, "message": message}
	for k, v := range diag {
		body[k] = v
	}
	return c.Status(status).JSON(fiber.Map{"error": body})
}
