package http

import (
	"errors"

	catalogdomain "github.com/cristianortiz/marketplaceEngine/internal/catalog/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/ordering/application"
	"github.com/cristianortiz/marketplaceEngine/internal/ordering/domain"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/httpserver"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// OrderingHandler exposes the ordering use cases over HTTP.
type OrderingHandler struct {
	service application.OrderingService
}

// NewOrderingHandler creates a new instance of OrderingHandler.
func NewOrderingHandler(service application.OrderingService) *OrderingHandler {
	return &OrderingHandler{service: service}
}

// RegisterRoutes mounts the ordering routes on the app.
func (h *OrderingHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/orders", h.createOrder)
	app.Get("/orders", h.listOrders)
	app.Get("/orders/:id", h.getOrder)
	app.Patch("/orders/:id", h.updateOrder)
	app.Post("/orders/:id/cancel", h.requestCancel)
	app.Post("/orders/:id/cancellation", h.processCancellation)
}

type orderItemRequest struct {
	ProductID    uuid.UUID  `json:"product_id"`
	Quantity     int        `json:"quantity"`
	IsAuctionWin bool       `json:"is_auction_win"`
	BidID        *uuid.UUID `json:"bid_id"`
}

type createOrderRequest struct {
	ShippingAddressID uuid.UUID          `json:"shipping_address_id"`
	BillingAddressID  uuid.UUID          `json:"billing_address_id"`
	Currency          string             `json:"currency"`
	Source            string             `json:"source"`
	Notes             string             `json:"notes"`
	Items             []orderItemRequest `json:"items"`
}

func (h *OrderingHandler) createOrder(c *fiber.Ctx) error {
	buyerID, err := httpserver.Principal(c)
	if err != nil {
		return unauthorized(c)
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid request body", nil)
	}

	items := make([]application.OrderItemDTO, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, application.OrderItemDTO{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			IsAuctionWin: item.IsAuctionWin,
			BidID:        item.BidID,
		})
	}

	result, err := h.service.CreateOrder(c.Context(), application.CreateOrderDTO{
		BuyerID:           buyerID,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		Currency:          req.Currency,
		Source:            req.Source,
		Notes:             req.Notes,
		Items:             items,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

type updateOrderRequest struct {
	ShippingAddressID *uuid.UUID `json:"shipping_address_id"`
	BillingAddressID  *uuid.UUID `json:"billing_address_id"`
	Notes             *string    `json:"notes"`
}

func (h *OrderingHandler) updateOrder(c *fiber.Ctx) error {
	buyerID, err := httpserver.Principal(c)
	if err != nil {
		return unauthorized(c)
	}
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid order id", nil)
	}

	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid request body", nil)
	}

	err = h.service.UpdateOrder(c.Context(), application.UpdateOrderDTO{
		OrderID:           orderID,
		BuyerID:           buyerID,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		Notes:             req.Notes,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type requestCancelRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderingHandler) requestCancel(c *fiber.Ctx) error {
	buyerID, err := httpserver.Principal(c)
	if err != nil {
		return unauthorized(c)
	}
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid order id", nil)
	}

	// Reason is optional, an empty body is fine.
	var req requestCancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return failure(c, fiber.StatusBadRequest, "validation", "invalid request body", nil)
		}
	}

	result, err := h.service.RequestCancel(c.Context(), application.RequestCancelDTO{
		OrderID: orderID,
		BuyerID: buyerID,
		Reason:  req.Reason,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(result)
}

type processCancellationRequest struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes"`
}

func (h *OrderingHandler) processCancellation(c *fiber.Ctx) error {
	actorID, err := httpserver.Principal(c)
	if err != nil {
		return unauthorized(c)
	}
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid order id", nil)
	}

	var req processCancellationRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid request body", nil)
	}

	result, err := h.service.ProcessCancellation(c.Context(), application.ProcessCancellationDTO{
		OrderID:  orderID,
		ActorID:  actorID,
		Approved: req.Approved,
		Notes:    req.Notes,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(result)
}

func (h *OrderingHandler) getOrder(c *fiber.Ctx) error {
	buyerID, err := httpserver.Principal(c)
	if err != nil {
		return unauthorized(c)
	}
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return failure(c, fiber.StatusBadRequest, "validation", "invalid order id", nil)
	}

	detail, err := h.service.GetOrder(c.Context(), orderID, buyerID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"order":   detail.Order,
		"items":   detail.Items,
		"history": detail.History,
	})
}

func (h *OrderingHandler) listOrders(c *fiber.Ctx) error {
	buyerID, err := httpserver.Principal(c)
	if err != nil {
		return unauthorized(c)
	}
	orders, err := h.service.ListOrders(c.Context(), buyerID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// mapError translates domain errors into tagged JSON failures. Unknown
// errors are logged in full and reported generically.
func (h *OrderingHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrNoChanges):
		return failure(c, fiber.StatusBadRequest, "validation", err.Error(), nil)
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrBidNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound):
		return failure(c, fiber.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, domain.ErrUnauthorizedBuyer):
		return failure(c, fiber.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, domain.ErrInsufficientInventory),
		errors.Is(err, domain.ErrOrderNotEditable),
		errors.Is(err, domain.ErrOrderNotCancellable),
		errors.Is(err, domain.ErrNotPendingDecision),
		errors.Is(err, domain.ErrConflict):
		return failure(c, fiber.StatusConflict, "conflict", err.Error(), nil)
	}

	log.Error("ordering handler internal error", zap.Error(err))
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
