package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nwestbury/lucky-draw-backend/internal/draw"
	"github.com/nwestbury/lucky-draw-backend/internal/room"
	"github.com/nwestbury/lucky-draw-backend/internal/ws"
)

type claimRequest struct {
	Number   int    `json:"number"`
	TopicID  string `json:"topicId"`
	UserName string `json:"userName"`
}

type resetRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

type resultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func GetUsedNumbers(r *room.Room, log *zap.Logger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := reqContext(req, timeout)
		defer cancel()

		view, err := r.View(ctx)
		if err != nil {
			log.Warn("used-numbers read timed out", zap.Error(err))
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			UsedNumbers []int `json:"usedNumbers"`
		}{UsedNumbers: view.State.UsedNumbers()})
	}
}

func GetDrawRecords(r *room.Room, log *zap.Logger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := reqContext(req, timeout)
		defer cancel()

		view, err := r.View(ctx)
		if err != nil {
			log.Warn("draw-records read timed out", zap.Error(err))
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			TopicDrawers map[string][]string       `json:"topicDrawers"`
			TopicNumbers map[string]map[string]int `json:"topicNumbers"`
		}{TopicDrawers: view.State.Drawers, TopicNumbers: view.State.Numbers})
	}
}

func ClaimNumber(r *room.Room, log *zap.Logger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body claimRequest
		if !decodeStrict(w, req, &body) {
			return
		}

		ctx, cancel := reqContext(req, timeout)
		defer cancel()

		number, err := r.Claim(ctx, body.Number, body.TopicID, body.UserName)
		if err != nil {
			log.Info("claim rejected",
				zap.Int("number", body.Number),
				zap.String("topic", body.TopicID),
				zap.Error(err))
			writeJSON(w, statusFor(err), resultResponse{Success: false, Message: ws.ResultMessage(err)})
			return
		}

		log.Info("number claimed",
			zap.Int("number", number),
			zap.String("topic", body.TopicID),
			zap.String("user", body.UserName))
		writeJSON(w, http.StatusOK, resultResponse{Success: true})
	}
}

func Reset(r *room.Room, log *zap.Logger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body resetRequest
		if !decodeStrict(w, req, &body) {
			return
		}

		ctx, cancel := reqContext(req, timeout)
		defer cancel()

		if err := r.Reset(ctx, body.IsAdmin); err != nil {
			log.Info("reset rejected", zap.Bool("is_admin", body.IsAdmin), zap.Error(err))
			writeJSON(w, statusFor(err), resultResponse{Success: false, Message: ws.ResultMessage(err)})
			return
		}

		log.Info("state reset")
		writeJSON(w, http.StatusOK, resultResponse{Success: true})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// statusFor keeps the HTTP layer honest about which failures are the
// caller's fault. A lost claim race is an expected outcome, not an error
// status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, draw.ErrAlreadyClaimed):
		return http.StatusOK
	case errors.Is(err, draw.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, draw.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, room.ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func reqContext(req *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(req.Context(), timeout)
}

func decodeStrict(w http.ResponseWriter, req *http.Request, v any) bool {
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, resultResponse{Success: false, Message: "bad request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
