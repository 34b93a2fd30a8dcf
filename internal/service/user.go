package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/events"
	"github.com/vidstream/video-platform-go/internal/media"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

const userConflict = "user with this email or username already exists"

// passwordCost is lowered in tests.
var passwordCost = bcrypt.DefaultCost

// RegisterInput is a registration request with its images already saved to
// local files. CoverImageFilePath is optional.
type RegisterInput struct {
	Username           string
	Email              string
	FullName           string
	Password           string
	AvatarFilePath     string
	CoverImageFilePath string
}

// UserService manages accounts. Token issuance happens elsewhere.
type UserService struct {
	deps Dependencies
}

// NewUserService creates a new UserService.
func NewUserService(deps Dependencies) *UserService {
	return &UserService{deps: deps}
}

// Register creates an account. Username and email are stored lowercase and
// must both be unused.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.deps.Validator.Registration(in.Username, in.Email, in.FullName, in.Password); err != nil {
		return nil, Validation("%s", err.Error())
	}
	if in.AvatarFilePath == "" {
		return nil, Validation("avatar file is required")
	}

	user := models.NewUser(in.Username, in.Email, in.FullName, "")

	exists, err := s.deps.Users.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return nil, Upstream("data store request failed", err)
	}
	if exists {
		return nil, Conflict(userConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return nil, Internal("failed to hash password", err)
	}
	user.PasswordHash = string(hash)

	uploads := []media.Upload{{Folder: folderAvatars, LocalPath: in.AvatarFilePath}}
	if in.CoverImageFilePath != "" {
		uploads = append(uploads, media.Upload{Folder: folderCovers, LocalPath: in.CoverImageFilePath})
	}
	stored, err := media.StoreAll(ctx, s.deps.Media, uploads...)
	if err != nil {
		s.deps.orphan(ctx, "partial registration upload", media.Stored(stored)...)
		return nil, Upstream("failed to upload images", err)
	}

	user.AvatarURL, user.AvatarStorageID = stored[0].URL, stored[0].StorageID
	if len(stored) > 1 {
		user.CoverImageURL, user.CoverImageStorageID = stored[1].URL, stored[1].StorageID
	}

	if err := s.deps.Users.Create(ctx, user); err != nil {
		s.deps.orphan(ctx, "user create failed", media.Stored(stored)...)
		if db.IsDuplicateKey(err) {
			return nil, Conflict(userConflict)
		}
		return nil, Upstream("failed to save user", err)
	}

	created, err := s.deps.Users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, Internal("something went wrong while registering the user", err)
	}

	logger.Log.Info("User registered",
		zap.String("userId", created.ID.String()),
		zap.String("username", created.Username),
	)
	s.deps.publish(ctx, events.UserRegistered, events.UserRegisteredData{
		UserID:   created.ID,
		Username: created.Username,
	})

	return created, nil
}
