package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type RoomsEndReq struct {
	UserID string `json:"userId" binding:"required"`
}

// RoomsEnd ends the meeting for everyone. Only the host may call it; every
// live subscriber observes the room-ended push and self-terminates.
func RoomsEnd(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomsEndReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// End the room
		if err := roomsService.EndRoom(c.Param("id"), req.UserID); err != nil {
			abortWithError(c, err)
			return
		}

		// Otherwise return successfully
		c.JSON(http.StatusOK, gin.H{
			"data":    gin.H{},
			"message": "Room ended",
		})

	}
}
