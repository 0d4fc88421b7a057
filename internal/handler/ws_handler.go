package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lenteraedu/lentera-backend/internal/middleware"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/service"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the attempt countdown to students.
type WSHandler struct {
	attemptService *service.AttemptService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// countdownTick is one message on the countdown stream.
type countdownTick struct {
	Status           model.AttemptStatus `json:"status"`
	RemainingSeconds int64               `json:"remaining_seconds"`
}

// AttemptCountdownStream godoc
// WS /ws/v1/student/attempts/:attempt_id/countdown
// Streams the remaining seconds once per second until the attempt leaves
// IN_PROGRESS. The closing tick carries the terminal status.
func (h *WSHandler) AttemptCountdownStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attempt ID"})
		return
	}

	// Validate before upgrading so a bad attempt ID fails as plain HTTP.
	view, err := h.attemptService.Inspect(c.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		if errors.Is(err, service.ErrAttemptAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "attempt not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("student_id", claims.UserID).
		Str("attempt_id", attemptID.String()).
		Logger()
	wsLog.Info().Msg("Countdown stream connected")

	// Reader goroutine: we never expect client messages, only the close
	// frame.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		if err := conn.WriteJSON(tickFromView(view)); err != nil {
			wsLog.Debug().Msg("Connection closed")
			return
		}
		if view.Status != model.AttemptStatusInProgress {
			wsLog.Info().Str("status", string(view.Status)).Msg("Countdown finished")
			return
		}

		select {
		case <-closed:
			wsLog.Debug().Msg("Client disconnected")
			return
		case <-ticker.C:
		}

		view, err = h.attemptService.Inspect(c.Request.Context(), claims.UserID, attemptID)
		if err != nil {
			wsLog.Warn().Err(err).Msg("Inspect failed, closing stream")
			return
		}
	}
}

func tickFromView(view *model.AttemptView) countdownTick {
	tick := countdownTick{Status: view.Status}
	if view.RemainingSeconds != nil {
		tick.RemainingSeconds = *view.RemainingSeconds
	}
	return tick
}
