// Package main はScan4health スタブAPIサーバーのエントリーポイント。
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/oyaguma3/scan4health-console/apps/catalog-stub/internal/config"
	"github.com/oyaguma3/scan4health-console/pkg/catalogstub"
	"github.com/oyaguma3/scan4health-console/pkg/logging"
	"github.com/oyaguma3/scan4health-console/pkg/model"
)

func main() {
	// 1. 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. ロガー初期化
	logger := logging.Setup(os.Stdout, "catalog-stub", cfg.LogLevel)

	// 3. 初期データ
	seed, err := loadSeed(cfg.SeedFile)
	if err != nil {
		logger.Error("failed to load seed", "error", err, "file", cfg.SeedFile)
		os.Exit(1)
	}

	// 4. サーバー生成
	gin.SetMode(cfg.GinMode)
	stub := catalogstub.New(
		catalogstub.WithCredentials(cfg.AdminUser, cfg.AdminPassword),
		catalogstub.WithLogger(logger),
		catalogstub.WithSeed(seed...),
	)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           stub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting catalog-stub",
		"listen_addr", cfg.ListenAddr,
		"log_level", cfg.LogLevel,
		"seed", len(seed),
	)

	// 5. Graceful Shutdown設定
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

// loadSeed はCSVから初期データを読み込む。path が空なら何もしない。
func loadSeed(path string) ([]model.LabTest, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	payloads, errs := catalogstub.ParseCSV(f)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid seed file: %w", errors.Join(errs...))
	}
	tests := make([]model.LabTest, 0, len(payloads))
	for _, p := range payloads {
		tests = append(tests, model.LabTest{
			Name:               p.Name,
			DomesticPrice:      p.DomesticPrice,
			InternationalPrice: p.InternationalPrice,
			Precautions:        p.Precautions,
		})
	}
	return tests, nil
}
