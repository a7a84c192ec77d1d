package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse writes the shared failure envelope. Every handler responds
// through this so clients see one error shape across routes.
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// SuccessResponse writes the shared success envelope with an optional payload.
func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}
