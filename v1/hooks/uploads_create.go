package hooks

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studycircle/studyroom-api/services"
)

func UploadsCreate(uploadsService *services.UploadsService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the uploaded file from the multipart form
		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Push the image to the asset host
		url, err := uploadsService.Upload(c.Request.Context(), fileHeader.Filename, data)
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Return the hosted URL
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"url": url,
			},
		})

	}
}
