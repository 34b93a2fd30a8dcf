package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/models"
	"github.com/vidstream/video-platform-go/internal/viewer"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

const (
	headerAuth   = "Authorization"
	bearerPrefix = "Bearer "
)

var (
	errInvalidToken = errors.New("invalid token")
	errNoSecret     = errors.New("token verification is not configured")
)

// ViewerAuth resolves the viewer from a bearer token signed with HS256.
// Tokens are issued by the account service; this side only verifies them.
type ViewerAuth struct {
	secret []byte
}

// NewViewerAuth creates a new ViewerAuth verifying tokens with secret.
func NewViewerAuth(secret string) *ViewerAuth {
	return &ViewerAuth{secret: []byte(secret)}
}

// Enabled reports whether a signing secret is configured.
func (a *ViewerAuth) Enabled() bool {
	return len(a.secret) > 0
}

// Middleware stores the viewer in the request context. Requests without an
// Authorization header continue as guests; a header carrying a bad token is
// rejected with 401. Without a secret every request is a guest.
func (a *ViewerAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}

		token, present := extractBearer(c.Request)
		if !present {
			c.Next()
			return
		}

		v, err := a.ParseToken(token)
		if err != nil {
			logger.Log.Warn("Rejected bearer token",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("clientIp", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.NewErrorResponse(http.StatusUnauthorized, "invalid or expired access token", c.Request.URL.Path))
			return
		}

		c.Request = c.Request.WithContext(viewer.NewContext(c.Request.Context(), v))
		c.Next()
	}
}

// ParseToken verifies token and returns the viewer it names. The subject
// claim must be a user id.
func (a *ViewerAuth) ParseToken(token string) (*viewer.Viewer, error) {
	if !a.Enabled() {
		return nil, errNoSecret
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", errInvalidToken)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", errInvalidToken)
	}

	username, _ := claims["username"].(string)
	return &viewer.Viewer{ID: id, Username: username}, nil
}

// extractBearer returns the bearer token and whether an Authorization header
// was sent at all.
func extractBearer(r *http.Request) (string, bool) {
	header := r.Header.Get(headerAuth)
	if header == "" {
		return "", false
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", true
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)), true
}
