// Package session owns authentication state. There is no ambient current
// user: a Session is constructed at sign-in, handed to whatever needs it, and
// dropped at sign-out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/hash"
	"github.com/sparshnfc/storefront/internal/kvstore"
	"github.com/sparshnfc/storefront/internal/models"
	"github.com/sparshnfc/storefront/internal/records"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("this email is already registered")
	ErrNoAccount          = errors.New("no account found with this email")
)

const profileMirrorPrefix = "sparshUserProfile:"

// Session is the explicit per-login context.
type Session struct {
	UserID    uint   `json:"user_id"`
	ProfileID string `json:"profile_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`

	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}

type Service struct {
	DB   *gorm.DB
	Docs docstore.Store
	KV   kvstore.Store

	JWTSecret     []byte
	RefreshSecret []byte

	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SignUp creates the account row, the profile document and a live session.
func (s *Service) SignUp(ctx context.Context, email, password string, profile docstore.Document) (*Session, error) {
	var existing models.User
	err := s.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("signup: %w", err)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	doc := docstore.Document{}
	if profile != nil {
		doc = profile.Clone()
	}
	doc["email"] = email
	doc["createdAt"] = s.now().UTC().Format(time.RFC3339)
	profileID, err := s.Docs.Create(ctx, records.Users.Collection, doc)
	if err != nil {
		return nil, fmt.Errorf("signup: save profile: %w", err)
	}

	fullName, _ := doc["fullName"].(string)
	user := models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: pwHash,
		Role:         "user",
		ProfileID:    profileID,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		// No account row, no profile: drop the document so a retry does not
		// leave orphans behind.
		_ = s.Docs.Delete(ctx, records.Users.Collection, profileID)
		return nil, fmt.Errorf("signup: %w", err)
	}

	return s.open(&user)
}

// SignIn verifies credentials and opens a session, mirroring the profile to
// local storage for quick access.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.open(&user)
	if err != nil {
		return nil, err
	}
	s.mirrorProfile(ctx, sess)
	return sess, nil
}

func (s *Service) open(user *models.User) (*Session, error) {
	access, err := SignAccessToken(user.ID, user.Role, s.JWTSecret, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := SignRefreshToken(user.ID, user.Role, s.RefreshSecret, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.saveRefresh(refresh, user.ID, user.Role); err != nil {
		return nil, err
	}

	return &Session{
		UserID:       user.ID,
		ProfileID:    user.ProfileID,
		Email:        user.Email,
		FullName:     user.FullName,
		Role:         user.Role,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// SignOut revokes the session's refresh token and drops the cached mirrors.
func (s *Service) SignOut(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	if err := s.RevokeRefresh(sess.RefreshToken); err != nil {
		return err
	}
	s.KV.Remove(profileMirrorPrefix + sess.ProfileID)
	return nil
}

// SendPasswordReset issues a single-use reset token valid for one hour.
func (s *Service) SendPasswordReset(ctx context.Context, email string) (string, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoAccount
		}
		return "", fmt.Errorf("password reset: %w", err)
	}

	reset := models.PasswordReset{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(time.Hour).Unix(),
	}
	if err := s.DB.Create(&reset).Error; err != nil {
		return "", fmt.Errorf("password reset: %w", err)
	}
	return reset.Token, nil
}

// CurrentUser resolves the account row behind a session, or nil when the
// session is gone.
func (s *Service) CurrentUser(sess *Session) *models.User {
	if sess == nil {
		return nil
	}
	var user models.User
	if err := s.DB.First(&user, sess.UserID).Error; err != nil {
		return nil
	}
	return &user
}

// Profile reads the session's profile document.
func (s *Service) Profile(ctx context.Context, sess *Session) (docstore.Document, error) {
	snap, err := s.Docs.Get(ctx, records.Users.Collection, sess.ProfileID)
	if err != nil {
		return nil, err
	}
	doc := snap.Data.Clone()
	doc["id"] = snap.ID
	doc["uid"] = snap.ID
	return doc, nil
}

// UpdateProfile merges updates into the profile document, stamps updatedAt
// and refreshes the local mirror.
func (s *Service) UpdateProfile(ctx context.Context, sess *Session, updates docstore.Document) error {
	doc := updates.Clone()
	doc["updatedAt"] = s.now().UTC().Format(time.RFC3339)
	if err := s.Docs.Update(ctx, records.Users.Collection, sess.ProfileID, doc); err != nil {
		return err
	}
	s.mirrorProfile(ctx, sess)
	return nil
}

// mirrorProfile caches the profile document in the local slot. Failures are
// ignored; the mirror is an optimization, not the source of truth.
func (s *Service) mirrorProfile(ctx context.Context, sess *Session) {
	snap, err := s.Docs.Get(ctx, records.Users.Collection, sess.ProfileID)
	if err != nil {
		return
	}
	raw, err := json.Marshal(snap.Data)
	if err != nil {
		return
	}
	s.KV.Set(profileMirrorPrefix+sess.ProfileID, string(raw))
}

// MirroredProfile returns the cached profile snapshot, if any.
func (s *Service) MirroredProfile(profileID string) (string, bool) {
	return s.KV.Get(profileMirrorPrefix + profileID)
}
