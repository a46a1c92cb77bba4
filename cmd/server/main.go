package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/nwestbury/lucky-draw-backend/internal/config"
	"github.com/nwestbury/lucky-draw-backend/internal/httpapi"
	"github.com/nwestbury/lucky-draw-backend/internal/notify"
	"github.com/nwestbury/lucky-draw-backend/internal/room"
	"github.com/nwestbury/lucky-draw-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("open postgres store", zap.Error(err))
		}
		st = pg
		logger.Info("using postgres state store")
	} else {
		st = store.NewFileStore(cfg.StateFile)
		logger.Info("using file state store", zap.String("path", cfg.StateFile))
	}

	initial, err := st.Load()
	if err != nil {
		logger.Fatal("load state", zap.Error(err))
	}

	ctx := context.Background()
	notifier := notify.NewNotifier(ctx, notify.Snapshot{Version: 0, State: initial})
	rm := room.NewRoom(ctx, initial, st, notifier, cfg.MaxNumber, logger)

	// Build the router *with* the coordinator injected
	handler := httpapi.SetupRoutes(rm, notifier, logger, cfg.ClaimTimeout)

	logger.Info("listening",
		zap.String("addr", cfg.Addr),
		zap.Int("max_number", cfg.MaxNumber),
		zap.Int("claimed", len(initial.UsedNumbers())))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
