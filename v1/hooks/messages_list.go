package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

func MessagesList(messagesService *services.MessagesService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the room's message history. Unsent messages are included
		// with their text withheld, so ordering is preserved.
		messages, err := messagesService.ListMessages(c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Return the ordered list
		c.JSON(http.StatusOK, gin.H{
			"data": messages,
		})

	}
}
