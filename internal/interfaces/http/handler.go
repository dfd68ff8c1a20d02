package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"botpage/internal/entities"
	"botpage/internal/infrastructure"
	"botpage/internal/interfaces"
	"botpage/internal/usecases"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

type Handler struct {
	onboarding     *usecases.OnboardingUsecase
	sessions       *usecases.SessionUsecase
	chat           *usecases.ChatUsecase
	tenants        interfaces.TenantStore
	sessionLimiter *infrastructure.AddressRateLimiter
	logger         *zap.Logger
}

func NewHandler(onboarding *usecases.OnboardingUsecase, sessions *usecases.SessionUsecase, chat *usecases.ChatUsecase, tenants interfaces.TenantStore, sessionLimiter *infrastructure.AddressRateLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		onboarding:     onboarding,
		sessions:       sessions,
		chat:           chat,
		tenants:        tenants,
		sessionLimiter: sessionLimiter,
		logger:         logger,
	}
}

func SetupRoutes(r *gin.Engine, h *Handler, dashboard *DashboardHandler, auth *usecases.AuthUsecase, middleware *Middleware) {
	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(4 << 20)) // logo payloads stay well under 4MB
	r.Use(middleware.CORSMiddleware())

	// Public Routes
	api := r.Group("/api")
	{
		api.POST("/onboard", h.HandleOnboard)
		api.GET("/config", h.HandleConfig)
		api.POST("/session", h.HandleSession)
		api.POST("/chat", h.HandleChat)
		api.GET("/health", h.HandleHealth)
	}

	// Public Auth Routes
	api.POST("/auth/login", func(c *gin.Context) {
		var loginReq struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&loginReq); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		token, err := auth.Login(c.Request.Context(), loginReq.Email, loginReq.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	})

	// Protected Owner Dashboard Routes
	owner := r.Group("/api/dashboard")
	owner.Use(middleware.AuthRequired())
	owner.Use(middleware.RateLimitPerUser(5, 10))
	{
		owner.GET("/tenants", dashboard.GetTenants)
		owner.GET("/leads", dashboard.GetLeads)
		owner.GET("/sessions", dashboard.GetSessions)
		owner.GET("/transcript", dashboard.GetTranscript)
	}
}

// respondError maps usecase errors onto the coarse public taxonomy:
// validation 400, ambiguous not-found 404, rate limit 429, everything
// else a generic 500 with the detail only in the server log.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entities.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entities.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
	case errors.Is(err, entities.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again in a few minutes."})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *Handler) HandleOnboard(c *gin.Context) {
	var req usecases.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Name = TruncateString(SanitizeString(req.Name), MaxNameLength)
	req.Email = TruncateString(SanitizeString(req.Email), MaxNameLength)
	req.BusinessName = TruncateString(SanitizeString(req.BusinessName), MaxNameLength)
	req.FAQ = TruncateString(SanitizeString(req.FAQ), MaxTextLength)
	req.TriageRules = TruncateString(SanitizeString(req.TriageRules), MaxTextLength)

	result, err := h.onboarding.Onboard(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"slug":     result.Slug,
		"page_url": result.PageURL,
		"message":  "Bot created successfully",
	})
}

func (h *Handler) HandleConfig(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
		return
	}
	if !ValidSlug(slug) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
		return
	}

	tenant, err := h.tenants.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if tenant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
		return
	}

	// Public projection only. The encrypted key never leaves the store.
	c.JSON(http.StatusOK, gin.H{
		"slug":           tenant.Slug,
		"businessName":   tenant.BusinessName,
		"sellerWhatsapp": tenant.SellerWhatsapp,
		"whatSell":       tenant.WhatSell,
		"targetAudience": tenant.TargetAudience,
		"faq":            tenant.FAQ,
		"triageRules":    tenant.TriageRules,
		"color":          tenant.Color,
		"logoUrl":        tenant.LogoURL,
	})
}

func (h *Handler) HandleSession(c *gin.Context) {
	if !h.sessionLimiter.Allow(c.ClientIP()) {
		h.respondError(c, entities.ErrRateLimited)
		return
	}

	var req usecases.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.LeadName = TruncateString(SanitizeString(req.LeadName), MaxNameLength)
	req.LeadCity = TruncateString(SanitizeString(req.LeadCity), MaxNameLength)
	req.LeadMessage = TruncateString(SanitizeString(req.LeadMessage), MaxMessageLength)

	sessionID, err := h.sessions.Start(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"sessionId": sessionID,
	})
}

func (h *Handler) HandleChat(c *gin.Context) {
	var req usecases.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Message = TruncateString(SanitizeString(req.Message), MaxMessageLength)

	reply, err := h.chat.Reply(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"response": reply,
	})
}

func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}
