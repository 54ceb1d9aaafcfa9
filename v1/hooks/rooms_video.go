package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type RoomsVideoReq struct {
	UserID   string `json:"userId" binding:"required"`
	VideoURL string `json:"videoUrl"`
}

// RoomsVideo sets the shared watch-party video. An empty URL clears it.
func RoomsVideo(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomsVideoReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Update the shared video
		if err := roomsService.SetVideoURL(c.Param("id"), req.UserID, req.VideoURL); err != nil {
			abortWithError(c, err)
			return
		}

		// Otherwise return successfully
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
