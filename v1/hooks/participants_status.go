package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type ParticipantsStatusReq struct {
	IsOnline bool `json:"isOnline"`
}

func ParticipantsStatus(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ParticipantsStatusReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Update the presence flag
		err := roomsService.SetParticipantOnline(
			c.Param("id"),
			c.Param("userId"),
			req.IsOnline,
		)
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Otherwise return successfully
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
