package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type LiveKitTokenReq struct {
	RoomName        string `json:"roomName" binding:"required"`
	ParticipantName string `json:"participantName" binding:"required"`
}

func LiveKitToken(liveKitTokensService *services.LiveKitTokensService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req LiveKitTokenReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Create the room-join token
		token, err := liveKitTokensService.CreateToken(req.RoomName, req.ParticipantName)
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Return the signed token
		c.JSON(http.StatusOK, gin.H{
			"data":    gin.H{"token": token},
			"message": "Token generated",
		})

	}
}
