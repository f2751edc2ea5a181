// Package webhook receives Zoom breakout-room webhook deliveries: challenge
// validation, signature verification, persistence and live broadcast.
package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roomtrack/backend/internal/ingest"
	"github.com/roomtrack/backend/internal/models"
	"github.com/roomtrack/backend/pkg/response"
)

const eventURLValidation = "endpoint.url_validation"

// Broadcaster pushes accepted events to live monitor clients.
type Broadcaster interface {
	BroadcastEvent(event string, payload interface{})
}

// EventStore archives accepted deliveries.
type EventStore interface {
	Insert(ctx context.Context, ev *models.WebhookEvent) error
}

// Handler handles POST /webhook.
type Handler struct {
	repo        EventStore
	broadcaster Broadcaster
	secretToken string
	logger      *zap.Logger
}

// NewHandler creates a webhook handler. broadcaster may be nil; signature
// verification is skipped when secretToken is empty.
func NewHandler(repo EventStore, broadcaster Broadcaster, secretToken string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, broadcaster: broadcaster, secretToken: secretToken, logger: logger}
}

type challengeResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}

type liveEvent struct {
	Event           string `json:"event"`
	RoomUUID        string `json:"room_uuid"`
	ParticipantName string `json:"participant_name"`
	EventTs         int64  `json:"event_ts"`
}

// Receive handles POST /webhook: answers url_validation challenges, verifies
// the delivery signature when a secret is configured, archives the payload
// and broadcasts it to the live feed. Records missing attribution fields are
// still archived; the report normalizer decides what counts.
func (h *Handler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "unreadable body")
		return
	}
	var rec map[string]any
	if err := json.Unmarshal(body, &rec); err != nil {
		response.BadRequest(c, "invalid json")
		return
	}
	eventName, _ := rec["event"].(string)

	if eventName == eventURLValidation {
		h.validateURL(c, rec)
		return
	}

	if h.secretToken != "" {
		sig := c.GetHeader("x-zm-signature")
		ts := c.GetHeader("x-zm-request-timestamp")
		if !VerifySignature(h.secretToken, ts, sig, body, time.Now()) {
			h.logger.Warn("webhook signature rejected", zap.String("event", eventName))
			response.Unauthorized(c, "invalid signature")
			return
		}
	}

	f := ingest.Fields(rec)
	ev := &models.WebhookEvent{
		Event:            eventName,
		RoomUUID:         f.RoomUUID,
		ParticipantName:  f.Name,
		ParticipantEmail: f.Email,
		EventTs:          f.EventTs,
		Payload:          json.RawMessage(body),
	}
	if err := h.repo.Insert(c.Request.Context(), ev); err != nil {
		h.logger.Error("persist webhook event failed", zap.Error(err), zap.String("event", eventName))
		response.Internal(c, "failed to store event")
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastEvent("room_event", liveEvent{
			Event:           eventName,
			RoomUUID:        f.RoomUUID,
			ParticipantName: f.Name,
			EventTs:         f.EventTs,
		})
	}

	h.logger.Debug("webhook event stored",
		zap.String("event", eventName),
		zap.String("participant", f.Name),
		zap.String("room", f.RoomUUID),
	)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) validateURL(c *gin.Context, rec map[string]any) {
	payload, _ := rec["payload"].(map[string]any)
	plainToken, _ := payload["plainToken"].(string)
	if plainToken == "" {
		response.BadRequest(c, "missing plainToken")
		return
	}
	c.JSON(http.StatusOK, challengeResponse{
		PlainToken:     plainToken,
		EncryptedToken: EncryptToken(h.secretToken, plainToken),
	})
}
