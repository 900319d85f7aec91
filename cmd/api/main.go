package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelechi-obi/flyzone-backend/internal/config"
	"github.com/kelechi-obi/flyzone-backend/internal/handler"
	"github.com/kelechi-obi/flyzone-backend/internal/logging"
	"github.com/kelechi-obi/flyzone-backend/internal/middleware"
	"github.com/kelechi-obi/flyzone-backend/internal/repository"
	"github.com/kelechi-obi/flyzone-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("flyzone-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	db := repository.NewDB(pool)
	users := repository.NewUserRepository(pool)
	transactions := repository.NewTransactionRepository(pool)
	seats := repository.NewSeatRepository(pool)
	bookings := repository.NewBookingRepository(pool)
	payments := repository.NewPaymentRepository(pool)
	messages := repository.NewMessageRepository(pool)

	userSvc := service.NewUserService(users)
	profileSvc := service.NewProfileService(users, transactions)
	transferSvc := service.NewTransferService(users, transactions, db)
	depositSvc := service.NewDepositService(users, transactions, db)
	settlementSvc := service.NewSettlementService(users, transactions, db, cfg.RecreditDeclinedTransfers)
	fundsSvc := service.NewAdminFundsService(users, transactions, db)
	ledgerSvc := service.NewLedgerService(transactions)
	bookingSvc := service.NewBookingService(seats, bookings, payments, db, cfg.JWTSecret, cfg.PaymentLinkBaseURL, cfg.PaymentLinkTTL())
	supportSvc := service.NewSupportService(messages)

	authHandler := handler.NewAuthHandler(userSvc, users, cfg.JWTSecret, cfg.JWTExpiry())
	profileHandler := handler.NewProfileHandler(profileSvc, userSvc)
	transferHandler := handler.NewTransferHandler(transferSvc)
	depositHandler := handler.NewDepositHandler(depositSvc)
	transactionHandler := handler.NewTransactionHandler(ledgerSvc)
	adminHandler := handler.NewAdminHandler(settlementSvc, fundsSvc, userSvc, ledgerSvc)
	supportHandler := handler.NewSupportHandler(supportSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	healthHandler := handler.NewHealthHandler(pool)

	authn := middleware.Auth(cfg.JWTSecret)
	admin := func(h http.Handler) http.Handler { return authn(middleware.RequireAdmin(h)) }

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health/live", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.Handle("GET /api/users/me", authn(http.HandlerFunc(profileHandler.Me)))
	mux.Handle("PUT /api/users/update", authn(http.HandlerFunc(profileHandler.Update)))
	mux.Handle("POST /api/users/transaction-code", authn(http.HandlerFunc(profileHandler.SetTransactionCode)))

	mux.Handle("POST /api/transfer", authn(http.HandlerFunc(transferHandler.Create)))
	mux.Handle("POST /api/transfer-code", authn(http.HandlerFunc(transferHandler.CreateWithCode)))
	mux.Handle("POST /api/deposit", authn(http.HandlerFunc(depositHandler.Create)))
	mux.Handle("GET /api/transactions", authn(http.HandlerFunc(transactionHandler.List)))

	mux.Handle("POST /api/payments/generate-link", authn(http.HandlerFunc(bookingHandler.GeneratePaymentLink)))
	mux.Handle("GET /api/bookings/{ref}", authn(http.HandlerFunc(bookingHandler.Track)))

	mux.Handle("POST /api/support/messages", authn(http.HandlerFunc(supportHandler.Send)))
	mux.Handle("GET /api/support/messages", authn(http.HandlerFunc(supportHandler.Mailbox)))

	mux.Handle("GET /api/admin/users", admin(http.HandlerFunc(adminHandler.ListUsers)))
	mux.Handle("PATCH /api/admin/users/{id}", admin(http.HandlerFunc(adminHandler.PatchUser)))
	mux.Handle("POST /api/admin/users/{id}/fund", admin(http.HandlerFunc(adminHandler.FundUser)))
	mux.Handle("POST /api/admin/users/{id}/debit", admin(http.HandlerFunc(adminHandler.DebitUser)))
	mux.Handle("POST /api/admin/users/{id}/reset-pin", admin(http.HandlerFunc(adminHandler.ResetPIN)))
	mux.Handle("GET /api/admin/transactions", admin(http.HandlerFunc(adminHandler.ListTransactions)))
	mux.Handle("POST /api/admin/transactions/{id}/approve", admin(http.HandlerFunc(adminHandler.ApproveTransaction)))
	mux.Handle("POST /api/admin/transactions/{id}/decline", admin(http.HandlerFunc(adminHandler.DeclineTransaction)))
	mux.Handle("GET /api/admin/support/conversations", admin(http.HandlerFunc(supportHandler.Conversations)))
	mux.Handle("GET /api/admin/support/conversations/{userId}", admin(http.HandlerFunc(supportHandler.Thread)))

	chain := middleware.CORS(cfg.CORSAllowedOrigins)(
		middleware.Tracing(
			middleware.Logging(
				middleware.Recovery(mux),
			),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
