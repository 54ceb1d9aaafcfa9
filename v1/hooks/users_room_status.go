package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

func UsersRoomStatus(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Look up the user's current membership
		status, err := roomsService.GetUserRoomStatus(c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Return the status
		c.JSON(http.StatusOK, gin.H{
			"data": status,
		})

	}
}
