package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/notegenius/notegenius/internal/filestore"
	"github.com/notegenius/notegenius/internal/model"
	appErr "github.com/notegenius/notegenius/internal/pkg/errors"
	"github.com/notegenius/notegenius/internal/pkg/jwt"
	"github.com/notegenius/notegenius/internal/pkg/password"
	"github.com/notegenius/notegenius/internal/pkg/timeutil"
	"github.com/notegenius/notegenius/internal/repo"
)

type AuthService struct {
	users     *repo.UserRepo
	store     filestore.Store
	jwtSecret []byte
	jwtTTL    time.Duration
}

// NewAuthService wires auth against the user repo; store may be nil, in which
// case avatars are kept inline as data URIs.
func NewAuthService(users *repo.UserRepo, store filestore.Store, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, store: store, jwtSecret: secret, jwtTTL: ttl}
}

func (s *AuthService) Signup(ctx context.Context, name, email, plainPassword string) (*model.User, string, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, "", err
	}
	user := &model.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Ctime:        timeutil.NowUnix(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := jwt.Sign(user.ID, user.Email, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	token, err := jwt.Sign(user.ID, user.Email, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UploadAvatar persists the image and records its address on the user. With a
// blob store exposing a public URL the avatar is served from there; otherwise
// it is embedded as a data URI.
func (s *AuthService) UploadAvatar(ctx context.Context, userID, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", appErr.ErrInvalid
	}
	avatarURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	if s.store != nil {
		key := "avatar-" + userID
		if err := s.store.Save(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
			logutil.GetLogger(ctx).Error("avatar blob save failed",
				zap.String("user_id", userID), zap.Error(err))
		} else if url := s.store.URL(key); url != "" {
			avatarURL = url
		}
	}
	if err := s.users.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		return "", err
	}
	return avatarURL, nil
}
