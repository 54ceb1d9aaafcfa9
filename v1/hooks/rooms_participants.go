package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

func RoomsParticipants(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the roster for the room
		participants, err := roomsService.GetParticipants(c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Return the roster with its count
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"participants": participants,
				"count":        len(participants),
			},
		})

	}
}
