package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
	"github.com/studycircle/studyroom-api/v1/hooks"
)

// Server is the API server instance
type Server struct {
	RoomsService         *services.RoomsService
	SubjectsService      *services.SubjectsService
	MessagesService      *services.MessagesService
	MediaTokensService   *services.MediaTokensService
	LiveKitTokensService *services.LiveKitTokensService
	UploadsService       *services.UploadsService
}

// Setup mounts the API server to the given group
func (s *Server) Setup(g *gin.RouterGroup) {

	// Health check
	g.GET("/health", hooks.Health())

	// Room directory
	g.GET("/rooms", hooks.RoomsList(s.RoomsService))
	g.POST("/rooms", hooks.RoomsCreate(s.RoomsService))
	g.GET("/rooms/:id", hooks.RoomsGet(s.RoomsService))

	// Membership
	g.POST("/rooms/:id/join", hooks.RoomsJoin(s.RoomsService))
	g.POST("/rooms/:id/leave", hooks.RoomsLeave(s.RoomsService))
	g.POST("/rooms/:id/switch", hooks.RoomsSwitch(s.RoomsService))
	g.POST("/rooms/:id/end", hooks.RoomsEnd(s.RoomsService))
	g.GET("/rooms/:id/participants", hooks.RoomsParticipants(s.RoomsService))
	g.POST("/rooms/:id/participants/:userId/status", hooks.ParticipantsStatus(s.RoomsService))
	g.GET("/users/:id/room-status", hooks.UsersRoomStatus(s.RoomsService))

	// Watch party
	g.POST("/rooms/:id/video", hooks.RoomsVideo(s.RoomsService))

	// Messages
	g.GET("/rooms/:id/messages", hooks.MessagesList(s.MessagesService))
	g.POST("/rooms/:id/messages", hooks.MessagesSend(s.MessagesService))
	g.POST("/messages/:id/unsend", hooks.MessagesUnsend(s.MessagesService))

	// Subjects
	g.GET("/subjects", hooks.SubjectsList(s.SubjectsService))

	// Media tokens and attachments
	g.POST("/media/token", hooks.MediaToken(s.MediaTokensService))
	g.POST("/livekit/token", hooks.LiveKitToken(s.LiveKitTokensService))
	g.POST("/uploads", hooks.UploadsCreate(s.UploadsService))

}
