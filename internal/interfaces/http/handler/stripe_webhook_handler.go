package handler

import (
	"context"
	"io"
	"net/http"

	billingapp "github.com/dentalhr/backend/internal/application/billing"
	"github.com/dentalhr/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Stripe webhooks are small; anything above 64KB is rejected
const maxWebhookPayloadSize = 65536

// StripeSignatureHeader carries the webhook signature
const StripeSignatureHeader = "Stripe-Signature"

// WebhookProcessor verifies and applies a Stripe event
type WebhookProcessor interface {
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (*billingapp.WebhookResult, error)
}

// StripeWebhookHandler handles the Stripe webhook endpoint.
// It is called by Stripe and authenticated only by the signature.
type StripeWebhookHandler struct {
	BaseHandler
	webhookService WebhookProcessor
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(webhookService WebhookProcessor) *StripeWebhookHandler {
	return &StripeWebhookHandler{webhookService: webhookService}
}

// StripeWebhookResponse is the acknowledgment Stripe expects
type StripeWebhookResponse struct {
	Received bool `json:"received"`
}

// HandleStripeWebhook handles POST /stripe/webhook.
// A bad signature is a 400; a processing failure is a 500 so Stripe redelivers.
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// the raw body is needed for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "Impossibile leggere il corpo della richiesta"))
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Payload troppo grande"))
		return
	}

	signature := c.GetHeader(StripeSignatureHeader)
	if signature == "" {
		h.HandleError(c, billingapp.ErrInvalidSignature)
		return
	}

	if _, err := h.webhookService.ProcessWebhook(c.Request.Context(), payload, signature); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, StripeWebhookResponse{Received: true})
}
