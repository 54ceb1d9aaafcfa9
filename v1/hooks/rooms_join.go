package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type RoomsJoinReq struct {
	UserID   string `json:"userId" binding:"required"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

func RoomsJoin(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomsJoinReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Join the room
		err := roomsService.JoinRoom(c.Param("id"), &services.ParticipantInfo{
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
			"message": "Joined room successfully",
		})

	}
}
