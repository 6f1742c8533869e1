package controllers

import (
	"context"
	"crypto/subtle"
	"net/http"

	"MediCheck/services"
	"MediCheck/util"

	"github.com/gin-gonic/gin"
)

type ReminderRunner interface {
	Run(ctx context.Context, slot string) (services.FiringReport, error)
}

// Reminders registers the manual firing route. It is only mounted when an
// admin token is configured.
func Reminders(router *gin.Engine, runner ReminderRunner, slots []string, adminToken string) {
	if adminToken == "" {
		return
	}
	reminders := router.Group("/reminders", RequireAdminToken(adminToken))
	{
		reminders.POST("/:slot/run", RunReminders(runner, slots))
	}
}

func RequireAdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedMessage(util.UNAUTHORIZED))
			return
		}
		c.Next()
	}
}

func RunReminders(runner ReminderRunner, slots []string) gin.HandlerFunc {
	known := make(map[string]bool, len(slots))
	for _, s := range slots {
		known[s] = true
	}
	return func(c *gin.Context) {
		slot := c.Param("slot")
		if !known[slot] {
			c.JSON(http.StatusNotFound, util.FailedMessage(util.UNKNOWN_TIMING_SLOT))
			return
		}
		report, err := runner.Run(c.Request.Context(), slot)
		if err != nil {
			c.JSON(http.StatusBadGateway, util.FailedMessage(util.REMINDER_RUN_FAILED))
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
