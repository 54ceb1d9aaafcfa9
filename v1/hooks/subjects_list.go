package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

func SubjectsList(subjectsService *services.SubjectsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get all of the subjects
		subjects, err := subjectsService.GetAllSubjects()
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Return the subject list
		c.JSON(http.StatusOK, gin.H{
			"data": subjects,
		})

	}
}
