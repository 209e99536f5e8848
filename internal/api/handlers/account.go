package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vibematch/vibematch-api/internal/logger"
	"github.com/vibematch/vibematch-api/internal/middleware"
	"github.com/vibematch/vibematch-api/internal/models"
	"gorm.io/gorm"
)

// AccountHandler serves account-level operations.
type AccountHandler struct {
	db *gorm.DB
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{db: db}
}

// DeleteAccount removes the caller's account and everything attached to it:
// recommendation history, credit balance, usage logs, and the user row.
// One transaction so a partial wipe can't happen.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	historyKey := strconv.FormatUint(uint64(user.ID), 10)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", historyKey).
			Delete(&models.RecommendationHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).
			Delete(&models.UsageLog{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).
			Delete(&models.UserCredits{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		logger.Error("account deletion failed", err, logger.Fields{
			"user_id": user.ID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	logger.Info("account deleted", logger.Fields{"user_id": user.ID})
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
