package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"veil/internal/api"
	"veil/internal/auth"
	"veil/internal/client"
	"veil/internal/common"
	"veil/internal/config"
	"veil/internal/handler"
	"veil/internal/privacy"
	"veil/internal/store"
	"veil/internal/wallet"

	_ "veil/docs"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title        Veil Wallet API
// @version      1.0
// @description  Privacy wallet session service
// @BasePath     /
func main() {
	if err := config.Init(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Keystore password is only needed when export/import is enabled
	if config.GetKeystorePath() != "" {
		if err := config.PromptForPassword(); err != nil {
			logger.Fatal("keystore password prompt failed", zap.Error(err))
		}
	}

	airdropSOL, err := common.ParseSOL(config.GetAirdropSOL())
	if err != nil {
		logger.Fatal("invalid AIRDROP_SOL", zap.Error(err))
	}

	records, err := store.Open(config.GetDatabasePath())
	if err != nil {
		logger.Fatal("failed to open record store", zap.Error(err))
	}

	ledger := client.NewLedgerClient(config.GetSolanaRPCURL())
	identity := client.NewIdentityClient(config.GetIdentityBaseURL(), config.GetIdentityClientID())
	prices := client.NewCoinGeckoClient()

	walletSession := wallet.NewSession(ledger, records, airdropSOL, logger)
	authSession := auth.NewSession(identity, logger)
	engine := privacy.NewEngine()

	router := api.SetupRouter(api.Deps{
		Wallet:  handler.NewWalletHandler(walletSession, prices),
		Privacy: handler.NewPrivacyHandler(engine),
		Auth:    handler.NewAuthHandler(authSession),
		Session: authSession,
	})

	svr := &http.Server{
		Addr:    ":" + config.GetPort(),
		Handler: router,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("veil wallet server launched",
		zap.String("addr", svr.Addr),
		zap.String("rpc", config.GetSolanaRPCURL()))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := svr.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return svr.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exit", zap.Error(err))
	}
}
