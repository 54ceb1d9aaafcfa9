package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type RoomsLeaveReq struct {
	UserID string `json:"userId" binding:"required"`
}

func RoomsLeave(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomsLeaveReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Leave the room. This is idempotent, so duplicate leave calls
		// from teardown paths succeed quietly.
		if err := roomsService.LeaveRoom(c.Param("id"), req.UserID); err != nil {
			abortWithError(c, err)
			return
		}

		// Otherwise return successfully
		c.JSON(http.StatusOK, gin.H{
			"data":    gin.H{},
			"message": "Left room successfully",
		})

	}
}
