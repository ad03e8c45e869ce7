package main

import (
	"context"

	biddingapp "github.com/cristianortiz/marketplaceEngine/internal/bidding/application"
	biddinghttp "github.com/cristianortiz/marketplaceEngine/internal/bidding/infra/http"
	biddingpg "github.com/cristianortiz/marketplaceEngine/internal/bidding/infra/repository/postgres"
	catalogpg "github.com/cristianortiz/marketplaceEngine/internal/catalog/infra/repository/postgres"
	orderingapp "github.com/cristianortiz/marketplaceEngine/internal/ordering/application"
	orderinghttp "github.com/cristianortiz/marketplaceEngine/internal/ordering/infra/http"
	orderingpg "github.com/cristianortiz/marketplaceEngine/internal/ordering/infra/repository/postgres"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/clock"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/config"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/db"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/db/migrations"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/httpserver"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/logger"
	"github.com/cristianortiz/marketplaceEngine/internal/shared/notifier"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting MarketplaceEngine server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(cfg.DB.DSN()); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	txRunner := db.NewPoolTxRunner(pool)
	clk := clock.Real{}

	hub := notifier.NewHub()
	go hub.Run(ctx)
	notify := notifier.Fanout{notifier.LogNotifier{}, hub}

	// Repositories
	productRepo := catalogpg.NewProductRepository(pool)
	auctionRepo := biddingpg.NewAuctionRepository(pool)
	bidRepo := biddingpg.NewBidRepository(pool)
	orderRepo := orderingpg.NewOrderRepository(pool)
	itemRepo := orderingpg.NewOrderItemRepository(pool)
	historyRepo := orderingpg.NewStatusHistoryRepository(pool)
	inventoryRepo := orderingpg.NewInventoryRepository(pool)
	paymentRepo := orderingpg.NewPaymentRepository(pool)

	// Bidding context
	placeBidUC := biddingapp.NewPlaceBidUseCase(auctionRepo, bidRepo, productRepo, txRunner, clk, notify)
	checkStatusUC := biddingapp.NewCheckBidStatusUseCase(bidRepo)
	closeUC := biddingapp.NewCloseAuctionUseCase(auctionRepo, bidRepo, txRunner, notify)
	autoBidsUC := biddingapp.NewProcessAutoBidsUseCase(auctionRepo, bidRepo, txRunner, clk, notify)
	biddingService := biddingapp.NewBiddingService(placeBidUC, checkStatusUC, closeUC, autoBidsUC, bidRepo)

	// Ordering context
	createUC := orderingapp.NewCreateOrderUseCase(
		orderRepo, itemRepo, historyRepo, inventoryRepo, productRepo, bidRepo,
		txRunner, clk, cfg.Orders.TaxRate, cfg.Orders.DefaultShipping, nil,
	)
	updateUC := orderingapp.NewUpdateOrderUseCase(orderRepo, historyRepo, txRunner, clk)
	requestCancelUC := orderingapp.NewRequestCancelUseCase(
		orderRepo, itemRepo, historyRepo, inventoryRepo, txRunner, clk, cfg.Orders.CancelGraceWindow,
	)
	processCancelUC := orderingapp.NewProcessCancellationUseCase(
		orderRepo, itemRepo, historyRepo, inventoryRepo, paymentRepo, txRunner, clk,
	)
	getOrdersUC := orderingapp.NewGetOrdersUseCase(orderRepo, itemRepo, historyRepo)
	orderingService := orderingapp.NewOrderingService(createUC, updateUC, requestCancelUC, processCancelUC, getOrdersUC)

	// Background workers
	closer := biddingapp.NewAuctionCloser(auctionRepo, closeUC, clk, cfg.Workers.AuctionCloseInterval)
	go closer.Run(ctx)
	autoBidWorker := biddingapp.NewAutoBidWorker(autoBidsUC, cfg.Workers.AutoBidInterval)
	go autoBidWorker.Run(ctx)

	// HTTP surface
	server := httpserver.NewServer()
	biddinghttp.NewBiddingHandler(biddingService).RegisterRoutes(server.App())
	orderinghttp.NewOrderingHandler(orderingService).RegisterRoutes(server.App())
	notifier.RegisterRoutes(server.App(), hub)

	if err := server.Start(cfg.HTTP.Addr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
