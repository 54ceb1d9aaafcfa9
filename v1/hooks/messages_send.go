package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type MessagesSendReq struct {
	UserID   string `json:"userId" binding:"required"`
	UserName string `json:"userName"`
	Text     string `json:"text" binding:"required"`
	ImageURL string `json:"imageUrl"`
	Type     string `json:"type"`
}

func MessagesSend(messagesService *services.MessagesService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req MessagesSendReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Append the message to the room's history
		message, err := messagesService.SendMessage(c.Param("id"), &services.MessageInfo{
			UserID:   req.UserID,
			UserName: req.UserName,
			Text:     req.Text,
			ImageURL: req.ImageURL,
			Type:     req.Type,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Return the stored message
		c.JSON(http.StatusOK, gin.H{
			"data": message,
		})

	}
}
