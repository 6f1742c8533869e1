package routes

import (
	"MediCheck/controllers"

	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Medications controllers.MedicationSaver
	Reminders   controllers.ReminderRunner
	Database    controllers.Pinger
	Slots       []string
	AdminToken  string
}

func Routes(r *gin.Engine, deps Dependencies) {
	controllers.Health(r, deps.Database)
	controllers.Medications(r, deps.Medications)
	controllers.Prescriptions(r)
	controllers.Reminders(r, deps.Reminders, deps.Slots, deps.AdminToken)
}
