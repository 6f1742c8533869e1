package controllers

import (
	"context"
	"net/http"

	"MediCheck/models"
	"MediCheck/services"
	"MediCheck/util"

	"github.com/gin-gonic/gin"
)

type MedicationSaver interface {
	Save(ctx context.Context, req models.SaveMedicationsRequest) (int, error)
}

func Medications(router *gin.Engine, svc MedicationSaver) {
	router.POST("/medications", SaveMedications(svc))
}

/*
* Bind the body; a non-list medications field fails here
* Validation errors are 400, store errors are 500
 */
func SaveMedications(svc MedicationSaver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SaveMedicationsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, util.FailedMessage(util.INVALID_REQUEST))
			return
		}
		if _, err := svc.Save(c.Request.Context(), req); err != nil {
			if services.IsValidationError(err) {
				c.JSON(http.StatusBadRequest, util.FailedResponse(err))
				return
			}
			c.JSON(http.StatusInternalServerError, util.FailedMessage(util.FAILED_TO_SAVE_MEDICATIONS))
			return
		}
		c.JSON(http.StatusOK, util.SuccessResponse(util.MEDICATIONS_SAVED))
	}
}
