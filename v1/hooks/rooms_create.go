package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

type RoomsCreateReq struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Subject         string `json:"subject" binding:"required"`
	MaxParticipants int    `json:"maxParticipants" binding:"required,min=2"`
	IsPublic        bool   `json:"isPublic"`
	HostID          string `json:"hostId" binding:"required"`
	HostName        string `json:"hostName"`
	HostPhotoURL    string `json:"hostPhotoURL"`
}

func RoomsCreate(roomsService *services.RoomsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req RoomsCreateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Create the room with the host as its first participant
		room, err := roomsService.CreateRoom(&services.CreateRoomSpec{
			Name:            req.Name,
			Description:     req.Description,
			Subject:         req.Subject,
			MaxParticipants: req.MaxParticipants,
			IsPublic:        req.IsPublic,
			HostID:          req.HostID,
			HostName:        req.HostName,
			HostPhotoURL:    req.HostPhotoURL,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Return the created room
		c.JSON(http.StatusOK, gin.H{
			"data":    room,
			"message": "Room created successfully",
		})

	}
}
