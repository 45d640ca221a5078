package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"starpost/internal/domain/credential"
	"starpost/internal/domain/review"
	"starpost/internal/repository"
	"starpost/internal/transport/httpdto"
	starpost_errors "starpost/pkg/errors"
	"starpost/pkg/logger"

	"github.com/gin-gonic/gin"
)

// signatureHeader carries the webhook HMAC, base64 or hex encoded.
const signatureHeader = "X-Webhook-Hmac-Sha256"

// reviewPoster is the slice of Poster the webhook path needs.
type reviewPoster interface {
	PostOne(ctx context.Context, rev review.Review, cred credential.Social) error
}

type WebhookHandler struct {
	secret   string
	poster   reviewPoster
	creds    repository.CredentialRepository
	attempts repository.PostAttemptRepository
	logger   *logger.Logger
}

func NewWebhookHandler(secret string, poster reviewPoster, creds repository.CredentialRepository, attempts repository.PostAttemptRepository, l *logger.Logger) *WebhookHandler {
	return &WebhookHandler{secret: secret, poster: poster, creds: creds, attempts: attempts, logger: l}
}

// Review handles a single new-review event: verify, filter to 5 stars,
// post through the same procedure the sweep uses. Quota checks are
// intentionally not applied on this path.
func (h *WebhookHandler) Review(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("unreadable body", "INVALID_REQUEST"))
		return
	}
	if !h.verifySignature(body, c.GetHeader(signatureHeader)) {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("invalid signature", "UNAUTHORIZED"))
		return
	}

	var payload httpdto.WebhookReviewPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Shop == "" || payload.Review.ID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid payload", "INVALID_REQUEST"))
		return
	}

	if payload.Review.Rating != 5 {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"skipped": "rating below 5"}))
		return
	}

	social, err := h.creds.GetSocial(c.Request.Context(), payload.Shop)
	if errors.Is(err, starpost_errors.ErrNotFound) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"skipped": "no social account connected"}))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}

	rev := review.Review{
		ID:           payload.Review.ID,
		Rating:       payload.Review.Rating,
		Body:         payload.Review.Body,
		ReviewerName: payload.Review.ReviewerName,
		ProductTitle: payload.Review.ProductTitle,
		Shop:         payload.Shop,
	}
	if err := h.poster.PostOne(c.Request.Context(), rev, social); err != nil {
		// The ledger already holds the failed attempt; the next sweep
		// will retry it.
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "POST_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"posted": true}))
}

// Uninstalled handles app/uninstalled: drop every record for the shop.
func (h *WebhookHandler) Uninstalled(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("unreadable body", "INVALID_REQUEST"))
		return
	}
	if !h.verifySignature(body, c.GetHeader(signatureHeader)) {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("invalid signature", "UNAUTHORIZED"))
		return
	}

	var payload httpdto.UninstallPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid payload", "INVALID_REQUEST"))
		return
	}
	shop := payload.ShopDomain
	if shop == "" {
		shop = payload.Shop
	}
	if shop == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("missing shop", "INVALID_REQUEST"))
		return
	}

	ctx := c.Request.Context()
	if err := h.creds.DeleteByShop(ctx, shop); err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	if err := h.attempts.DeleteByShop(ctx, shop); err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	h.logger.Infof("uninstall: removed data for %s", shop)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"deleted": true}))
}

// verifySignature checks an HMAC-SHA256 over the raw body. The header
// may be base64 (Shopify style) or hex; both compare constant-time.
func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	if decoded, err := base64.StdEncoding.DecodeString(signature); err == nil && hmac.Equal(decoded, expected) {
		return true
	}
	if decoded, err := hex.DecodeString(signature); err == nil && hmac.Equal(decoded, expected) {
		return true
	}
	return false
}
