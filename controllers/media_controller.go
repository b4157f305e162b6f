package controllers

import (
	"trungminh/services"
	"trungminh/utils"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	mediaService *services.MediaService
}

func NewMediaController(mediaService *services.MediaService) *MediaController {
	return &MediaController{mediaService: mediaService}
}

// UploadThumbnail accepts a multipart "file" field and returns its public URL.
func (mc *MediaController) UploadThumbnail(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read uploaded file", err.Error())
		return
	}
	defer file.Close()

	upload, err := mc.mediaService.UploadThumbnail(c.Request.Context(), fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		respondError(c, err, "Failed to upload thumbnail")
		return
	}

	utils.CreatedResponse(c, "Thumbnail uploaded", upload)
}
