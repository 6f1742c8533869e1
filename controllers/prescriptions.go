package controllers

import (
	"errors"
	"net/http"
	"strings"

	"MediCheck/services"
	"MediCheck/util"

	"github.com/gin-gonic/gin"
)

type parseRequest struct {
	Text string `json:"text"`
}

func Prescriptions(router *gin.Engine) {
	prescriptions := router.Group("/prescriptions")
	{
		prescriptions.POST("/parse", ParsePrescription)
	}
}

// ParsePrescription extracts a medication list from generative model output.
// Output without a usable list is still a 200 with structured=false.
func ParsePrescription(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, util.FailedMessage(util.INVALID_REQUEST))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, util.FailedResponse(errors.New(util.TEXT_IS_REQUIRED)))
		return
	}
	c.JSON(http.StatusOK, services.ParseMedicationList(req.Text))
}
