package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"propshare/configs"
	"propshare/internal/adapter/telegram"
	httpdelivery "propshare/internal/delivery/http"
	"propshare/internal/infra"
	"propshare/internal/middleware"
	"propshare/internal/service"
	"propshare/internal/usecase"
	"propshare/internal/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := configs.Load()
	utils.SetTimezone(cfg.Server.Timezone)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Ledger store
	store, closeStore, err := infra.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open ledger store: %v", err)
	}
	defer closeStore()

	// Operator notifications
	notifier, bot, err := telegram.NewNotificationService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("[WARN] Telegram disabled: %v", err)
		notifier, _, _ = telegram.NewNotificationService("", 0)
	}

	// Services
	writer := usecase.NewDocumentWriter(store)
	accounts := usecase.NewAccountService(writer)
	ledger := usecase.NewLedgerService(writer, notifier, cfg.Ledger.AllowedTerms)
	sweeper := service.NewMaturationService(ledger, notifier)

	if bot != nil {
		commands := telegram.NewCommandHandler(ledger, cfg.Telegram.ChatID)
		go commands.Start(ctx, bot)
	}

	// Maturation sweep
	scheduler := infra.NewScheduler(sweeper, cfg.Scheduler.SweepCron)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Public API
	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.AdminPassword)
	if cfg.Auth.AdminPassword == "" {
		log.Println("[WARN] ADMIN_PASSWORD not set, operator routes are disabled")
	}

	e := echo.New()
	e.HideBanner = true
	httpdelivery.SetupRoutes(e, &httpdelivery.RouterConfig{
		Auth:         auth,
		AuthHandler:  httpdelivery.NewAuthHandler(accounts, auth, cfg.IsProduction()),
		DataHandler:  httpdelivery.NewDataHandler(ledger),
		AdminHandler: httpdelivery.NewAdminHandler(ledger, writer, cfg.Store.Driver),
	})

	apiAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	apiServer := &http.Server{
		Addr:         apiAddr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Internal ops API
	opsAddr := fmt.Sprintf(":%s", cfg.Server.OpsPort)
	opsServer := &http.Server{
		Addr:         opsAddr,
		Handler:      newOpsRouter(opsDeps{store: writer, sweeper: sweeper, driver: cfg.Store.Driver}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🚀 PropShare API starting on %s", apiAddr)
	log.Printf("🔧 Ops API starting on %s", opsAddr)
	log.Printf("📊 Environment: %s", cfg.Server.Env)
	log.Printf("🗄️  Store driver: %s", cfg.Store.Driver)
	log.Printf("📅 Allowed terms: %v days", ledger.AllowedTerms())
	log.Println("========================================")

	for _, srv := range []*http.Server{apiServer, opsServer} {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to start server on %s: %v", srv.Addr, err)
			}
		}(srv)
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down servers...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, srv := range []*http.Server{apiServer, opsServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[ERROR] Server %s forced to shutdown: %v", srv.Addr, err)
		}
	}

	log.Println("[OK] Server exited gracefully")
}
