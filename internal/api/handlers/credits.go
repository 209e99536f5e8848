package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vibematch/vibematch-api/internal/logger"
	"github.com/vibematch/vibematch-api/internal/middleware"
	"github.com/vibematch/vibematch-api/internal/services"
	"gorm.io/gorm"
)

// creditPackages maps purchasable package names to credit amounts. Payment
// itself happens in the companion app; this endpoint records the grant.
var creditPackages = map[string]int{
	"starter":  10,
	"standard": 50,
	"pro":      200,
}

// CreditsHandler serves the credit balance and purchase endpoints.
type CreditsHandler struct {
	credits *services.CreditsService
}

func NewCreditsHandler(db *gorm.DB) *CreditsHandler {
	return &CreditsHandler{credits: services.NewCreditsService(db)}
}

// GetCredits returns the caller's current balance.
func (h *CreditsHandler) GetCredits(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	credits, err := h.credits.GetUserCredits(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch credits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"credits":   credits.Credits,
		"unlimited": user.Role == "admin" || user.Role == "beta",
	})
}

type purchaseRequest struct {
	Package string `json:"package" binding:"required"`
}

// PurchaseCredits grants a credit package to the caller.
func (h *CreditsHandler) PurchaseCredits(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	var body purchaseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "package is required"})
		return
	}

	amount, known := creditPackages[body.Package]
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown credit package"})
		return
	}

	if err := h.credits.AddCredits(user.ID, amount); err != nil {
		logger.Error("failed to add purchased credits", err, logger.Fields{
			"user_id": user.ID,
			"package": body.Package,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add credits"})
		return
	}

	credits, err := h.credits.GetUserCredits(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch credits"})
		return
	}

	logger.Info("credits purchased", logger.Fields{
		"user_id": user.ID,
		"package": body.Package,
		"amount":  amount,
	})

	c.JSON(http.StatusOK, gin.H{
		"credits": credits.Credits,
		"added":   amount,
	})
}

// GetUsageStats returns aggregate usage for the caller, optionally bounded by
// from/to query parameters (RFC 3339).
func (h *CreditsHandler) GetUsageStats(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from timestamp"})
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to timestamp"})
			return
		}
		to = parsed
	}

	stats, err := h.credits.GetUserUsageStats(user.ID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch usage stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
