package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

func RoomsList(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the rooms, optionally filtered by subject tag
		rooms, err := roomsService.ListRooms(c.Query("subject"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Return the room list
		c.JSON(http.StatusOK, gin.H{
			"data": rooms,
		})

	}
}
