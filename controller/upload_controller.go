// controller/upload_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fayhaa-municipality/complaints-api/config"
	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	"github.com/fayhaa-municipality/complaints-api/imaging"
	"github.com/fayhaa-municipality/complaints-api/middleware"
	"github.com/fayhaa-municipality/complaints-api/util"
)

type UploadController struct {
	pipeline *imaging.Pipeline
}

func NewUploadController(pipeline *imaging.Pipeline) *UploadController {
	return &UploadController{
		pipeline: pipeline,
	}
}

// RegisterRoutes registers the API routes
func (uc *UploadController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/uploads/complaint-photo", uc.UploadComplaintPhoto)
}

// UploadComplaintPhoto endpoint runs the image pipeline on a multipart photo
// and returns both rendered URLs. Clients attach them to a create or resolve
// call; nothing is stored on a complaint here.
func (uc *UploadController) UploadComplaintPhoto(c *gin.Context) {
	user := middleware.RequestingUser(c)
	if user == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", fayhaa_errors.ErrUnauthorized)
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Image file is required", err)
		return
	}
	if maxBytes := int64(config.GetInt("upload.maxBytes")); maxBytes > 0 && header.Size > maxBytes {
		util.RespondWithError(c, http.StatusRequestEntityTooLarge, "Image too large", fayhaa_errors.ErrInvalidComplaintData)
		return
	}

	file, err := header.Open()
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to read image", err)
		return
	}
	defer file.Close()

	result, err := uc.pipeline.Process(c, uuid.New().String(), file)
	if err != nil {
		util.RespondWithError(c, http.StatusBadGateway, "Failed to process image", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
