package controllers

import (
	"context"
	"net/http"
	"time"

	"MediCheck/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func Health(router *gin.Engine, db Pinger) {
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, util.FailedMessage(util.DATABASE_UNAVAILABLE))
			return
		}
		c.JSON(http.StatusOK, util.SuccessResponse(util.OK))
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
