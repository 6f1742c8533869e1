package util

const (
	INVALID_REQUEST            = "Invalid request."
	NO_VALID_MEDICATIONS       = "No valid medications provided."
	MEDICATIONS_SAVED          = "Medications saved."
	FAILED_TO_SAVE_MEDICATIONS = "Failed to save medications."
	TEXT_IS_REQUIRED           = "text is required"
	UNKNOWN_TIMING_SLOT        = "Unknown timing slot."
	REMINDER_RUN_FAILED        = "Failed to run reminders."
	UNAUTHORIZED               = "Unauthorized."
	DATABASE_UNAVAILABLE       = "Database unavailable."
	OK                         = "ok"
)

const (
	MedicationCollection = "medications"
	ReminderClaimKey     = "reminder:claim:"
)
