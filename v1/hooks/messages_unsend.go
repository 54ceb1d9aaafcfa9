package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type MessagesUnsendReq struct {
	UserID string `json:"userId" binding:"required"`
}

func MessagesUnsend(messagesService *services.MessagesService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req MessagesUnsendReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Soft-delete the message
		if err := messagesService.UnsendMessage(c.Param("id"), req.UserID); err != nil {
			abortWithError(c, err)
			return
		}

		// Otherwise return successfully
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
