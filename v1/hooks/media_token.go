package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type MediaTokenReq struct {
	RoomName    string `json:"roomName" binding:"required"`
	UserName    string `json:"userName"`
	UserEmail   string `json:"userEmail"`
	UserID      string `json:"userId" binding:"required"`
	IsModerator bool   `json:"isModerator"`
}

func MediaToken(mediaTokensService *services.MediaTokensService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req MediaTokenReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Create the media-access token scoped to {room, user}
		token, err := mediaTokensService.CreateToken(
			req.RoomName,
			req.UserName,
			req.UserEmail,
			req.UserID,
			req.IsModerator,
		)
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Return the token
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"token": token,
			},
			"message": "Token generated",
		})

	}
}
