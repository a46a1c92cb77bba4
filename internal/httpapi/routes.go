package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nwestbury/lucky-draw-backend/internal/notify"
	"github.com/nwestbury/lucky-draw-backend/internal/room"
	"github.com/nwestbury/lucky-draw-backend/internal/ws"
)

func SetupRoutes(r *room.Room, n *notify.Notifier, log *zap.Logger, timeout time.Duration) http.Handler {
	router := chi.NewRouter()

	// Public routes
	router.Get("/numbers", GetUsedNumbers(r, log, timeout))
	router.Get("/records", GetDrawRecords(r, log, timeout))
	router.Post("/claim", ClaimNumber(r, log, timeout))
	router.Post("/reset", Reset(r, log, timeout))
	router.Get("/healthz", Healthz)
	router.Get("/ws", ws.Handler(r, n, log, timeout))
	return router
}
