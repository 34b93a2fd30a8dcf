package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidstream/video-platform-go/internal/models"
	"github.com/vidstream/video-platform-go/internal/service"
)

// UserHandler handles account registration.
type UserHandler struct {
	users   UserService
	uploads *Uploads
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users UserService, uploads *Uploads) *UserHandler {
	return &UserHandler{users: users, uploads: uploads}
}

// Register handles the multipart POST /users/register.
func (h *UserHandler) Register(c *gin.Context) {
	var form models.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	avatarPath, err := h.uploads.Save(c, "avatar", true)
	if err != nil {
		handleError(c, err)
		return
	}
	defer h.uploads.Discard(avatarPath)

	coverPath, err := h.uploads.Save(c, "coverImage", false)
	if err != nil {
		handleError(c, err)
		return
	}
	defer h.uploads.Discard(coverPath)

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Username:           form.Username,
		Email:              form.Email,
		FullName:           form.FullName,
		Password:           form.Password,
		AvatarFilePath:     avatarPath,
		CoverImageFilePath: coverPath,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
