package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

func RoomsGet(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the room with the identifier
		room, err := roomsService.GetRoomByID(c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		if room == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrRoomNotFound.Error()})
			return
		}

		// Return the room
		c.JSON(http.StatusOK, gin.H{
			"data": room,
		})

	}
}
