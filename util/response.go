package util

import "github.com/gin-gonic/gin"

func SuccessResponse(message string) gin.H {
	return gin.H{"message": message}
}

func FailedResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

func FailedMessage(message string) gin.H {
	return gin.H{"error": message}
}
