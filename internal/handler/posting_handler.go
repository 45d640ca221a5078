package handler

import (
	"errors"
	"net/http"
	"strconv"

	"starpost/internal/middleware"
	"starpost/internal/repository"
	"starpost/internal/services"
	"starpost/internal/transport/httpdto"
	starpost_errors "starpost/pkg/errors"

	"github.com/gin-gonic/gin"
)

// sweepTrigger is the slice of Sweeper the handler needs.
type sweepTrigger interface {
	RequestRun() services.RunOutcome
}

type PostingHandler struct {
	sweeper  sweepTrigger
	quota    *services.QuotaManager
	attempts repository.PostAttemptRepository
	creds    repository.CredentialRepository
}

func NewPostingHandler(sweeper sweepTrigger, quota *services.QuotaManager, attempts repository.PostAttemptRepository, creds repository.CredentialRepository) *PostingHandler {
	return &PostingHandler{sweeper: sweeper, quota: quota, attempts: attempts, creds: creds}
}

// Run triggers a sweep, or coalesces into the one already executing.
func (h *PostingHandler) Run(c *gin.Context) {
	outcome := h.sweeper.RequestRun()
	c.JSON(http.StatusAccepted, httpdto.NewSuccessResponse(httpdto.RunResponse{Outcome: string(outcome)}))
}

// Attempts renders the post-attempt history for the dashboard.
func (h *PostingHandler) Attempts(c *gin.Context) {
	shop := middleware.ShopFromContext(c)
	if shop == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("missing shop", "INVALID_REQUEST"))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	attempts, total, err := h.attempts.ListByShop(c.Request.Context(), shop, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.AttemptsResponse{
		Attempts: attempts,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}))
}

// Status renders the connection and quota snapshot for the dashboard.
func (h *PostingHandler) Status(c *gin.Context) {
	shop := middleware.ShopFromContext(c)
	if shop == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("missing shop", "INVALID_REQUEST"))
		return
	}
	ctx := c.Request.Context()

	resp := httpdto.StatusResponse{
		Shop:     shop,
		DailyCap: h.quota.DailyCap,
	}

	if social, err := h.creds.GetSocial(ctx, shop); err == nil {
		resp.SocialConnected = true
		if social.Handle != nil {
			resp.SocialHandle = *social.Handle
		}
	} else if !errors.Is(err, starpost_errors.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}

	if _, err := h.creds.GetReviewSource(ctx, shop); err == nil {
		resp.ReviewSourceConnected = true
	} else if !errors.Is(err, starpost_errors.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}

	var err error
	if resp.DailyUsed, err = h.quota.DailyUsed(ctx, shop); err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	if resp.MonthlyUsed, err = h.quota.MonthlyUsed(ctx, shop); err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	resp.Plan = h.quota.ResolvePlan(ctx, shop)
	resp.MonthlyCap = h.quota.MonthlyCap(ctx, shop)

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(resp))
}
