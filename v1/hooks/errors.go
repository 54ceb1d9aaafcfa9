package hooks

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

// abortWithError converts a service error into the HTTP response the
// caller sees. Business errors keep their message; anything unrecognized
// becomes a plain 500 so internals don't leak.
func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRoomFull),
		errors.Is(err, services.ErrRoomEnded),
		errors.Is(err, services.ErrAlreadyInRoom):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotHost),
		errors.Is(err, services.ErrNotMessageAuthor):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUserRequired),
		errors.Is(err, services.ErrBadMessageType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
