package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type RoomsSwitchReq struct {
	UserID   string `json:"userId" binding:"required"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// RoomsSwitch atomically moves the user out of their current room and into
// the target room. If the target rejects the join, the user keeps their
// original membership, so there is no "in neither room" state.
func RoomsSwitch(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomsSwitchReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Switch into the target room
		err := roomsService.SwitchRoom(req.UserID, c.Param("id"), &services.ParticipantInfo{
			UserID:   req.UserID,
			Name:     req.Name,
			PhotoURL: req.PhotoURL,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Otherwise return successfully
		c.JSON(http.StatusOK, gin.H{
			"data":    gin.H{},
			"message": "Switched room successfully",
		})

	}
}
