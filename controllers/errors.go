package controllers

import (
	"errors"

	"trungminh/services"
	"trungminh/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope. Unknown errors
// are logged and reported as 500 without internal detail.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, "Validation failed", err.Error())
	case errors.Is(err, services.ErrNoRecipients):
		utils.BadRequestResponse(c, services.ErrNoRecipients.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Notification not found")
	case errors.Is(err, services.ErrTooLarge):
		utils.PayloadTooLargeResponse(c, err.Error())
	default:
		utils.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		utils.InternalServerErrorResponse(c, fallback, nil)
	}
}
