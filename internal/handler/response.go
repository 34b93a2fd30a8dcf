package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/metrics"
	"github.com/vidstream/video-platform-go/internal/models"
	"github.com/vidstream/video-platform-go/internal/service"
	"github.com/vidstream/video-platform-go/internal/viewer"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

// statusFor maps a service error category to its HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func handleError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status := statusFor(kind)
	metrics.ErrorsTotal.WithLabelValues(kind.String()).Inc()

	message := "An unexpected error occurred"
	var se *service.Error
	if errors.As(err, &se) {
		message = se.Message
	}

	if status >= http.StatusInternalServerError {
		logger.Log.Error("Request failed",
			zap.Error(err),
			zap.String("kind", kind.String()),
			zap.String("path", c.Request.URL.Path),
		)
	} else {
		logger.Log.Debug("Request rejected",
			zap.String("kind", kind.String()),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	c.JSON(status, models.NewErrorResponse(status, message, c.Request.URL.Path))
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, message, c.Request.URL.Path))
}

func currentViewer(c *gin.Context) *viewer.Viewer {
	return viewer.FromContext(c.Request.Context())
}

// Uploads saves multipart file parts to a local directory so services can
// hand them to the media provider by path.
type Uploads struct {
	dir string
}

// NewUploads creates a new Uploads writing under dir. An empty dir means
// the system temp directory.
func NewUploads(dir string) *Uploads {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Uploads{dir: dir}
}

// Save writes the file part named field and returns its local path. A
// missing part yields an empty path and no error unless required is set.
func (u *Uploads) Save(c *gin.Context, field string, required bool) (string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		if required {
			return "", service.Validation("%s file is required", field)
		}
		return "", nil
	}
	if err != nil {
		return "", service.Validation("invalid multipart form: %s", err.Error())
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	dst := filepath.Join(u.dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", service.Internal("failed to save upload", err)
	}
	return dst, nil
}

// Discard removes saved uploads. Missing paths are ignored.
func (u *Uploads) Discard(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Log.Warn("Failed to remove temporary upload", zap.String("path", p), zap.Error(err))
		}
	}
}
