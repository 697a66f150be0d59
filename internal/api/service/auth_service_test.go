package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"watchroom/internal/api/models"
	"watchroom/internal/api/repository"
	"watchroom/internal/auth"
	"watchroom/internal/config"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockRefreshTokenRepo struct {
	mock.Mock
}

func (m *MockRefreshTokenRepo) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepo) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepo) Delete(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepo) DeleteExpired() error {
	args := m.Called()
	return args.Error(0)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret-key-with-enough-entropy",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegisterNewUser(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, new(MockRefreshTokenRepo), testAuthConfig())

	userRepo.On("FindByUsername", "alice").Return(nil, repository.ErrNotFound)
	userRepo.On("FindByEmail", "alice@example.com").Return(nil, repository.ErrNotFound)
	userRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Register("alice", "correct horse battery", "alice@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	// the stored password must be a hash, never the plaintext
	assert.NotEqual(t, "correct horse battery", user.Password)
	assert.NoError(t, auth.VerifyPassword(user.Password, "correct horse battery"))
}

func TestRegisterTakenUsername(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, new(MockRefreshTokenRepo), testAuthConfig())

	userRepo.On("FindByUsername", "alice").Return(&models.User{ID: "user-1", Username: "alice"}, nil)

	_, err := svc.Register("alice", "password123", "other@example.com")
	assert.ErrorIs(t, err, ErrNameInUse)
}

func TestRegisterTakenEmail(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, new(MockRefreshTokenRepo), testAuthConfig())

	userRepo.On("FindByUsername", "bob").Return(nil, repository.ErrNotFound)
	userRepo.On("FindByEmail", "alice@example.com").Return(&models.User{ID: "user-1"}, nil)

	_, err := svc.Register("bob", "password123", "alice@example.com")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestLoginIssuesValidTokens(t *testing.T) {
	userRepo := new(MockUserRepo)
	tokenRepo := new(MockRefreshTokenRepo)
	svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())

	hash, err := auth.HashPassword("password123")
	assert.NoError(t, err)
	userRepo.On("FindByUsername", "alice").Return(&models.User{
		ID:       "user-1",
		Username: "alice",
		Password: hash,
	}, nil)
	tokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	access, refresh, user, err := svc.Login("alice", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.NotEmpty(t, refresh)

	claims, err := svc.ValidateToken(access)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, new(MockRefreshTokenRepo), testAuthConfig())

	hash, _ := auth.HashPassword("password123")
	userRepo.On("FindByUsername", "alice").Return(&models.User{ID: "user-1", Password: hash}, nil)

	_, _, _, err := svc.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, new(MockRefreshTokenRepo), testAuthConfig())

	userRepo.On("FindByUsername", "nobody").Return(nil, repository.ErrNotFound)

	_, _, _, err := svc.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshAccessToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	tokenRepo := new(MockRefreshTokenRepo)
	svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())

	tokenRepo.On("FindByToken", "refresh-1").Return(&models.RefreshToken{
		UserID:    "user-1",
		Token:     "refresh-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	userRepo.On("FindByID", "user-1").Return(&models.User{ID: "user-1", Username: "alice"}, nil)

	access, err := svc.RefreshAccessToken("refresh-1")
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestRefreshExpiredTokenIsCleanedUp(t *testing.T) {
	tokenRepo := new(MockRefreshTokenRepo)
	svc := NewAuthService(new(MockUserRepo), tokenRepo, testAuthConfig())

	tokenRepo.On("FindByToken", "stale").Return(&models.RefreshToken{
		UserID:    "user-1",
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)
	tokenRepo.On("Delete", "stale").Return(nil)

	_, err := svc.RefreshAccessToken("stale")
	assert.ErrorIs(t, err, ErrExpiredToken)
	tokenRepo.AssertCalled(t, "Delete", "stale")
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewAuthService(new(MockUserRepo), new(MockRefreshTokenRepo), testAuthConfig())

	_, err := svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenSignedWithOtherSecret(t *testing.T) {
	userRepo := new(MockUserRepo)
	tokenRepo := new(MockRefreshTokenRepo)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "a-completely-different-secret-key"
	otherSvc := NewAuthService(userRepo, tokenRepo, otherCfg)

	hash, _ := auth.HashPassword("password123")
	userRepo.On("FindByUsername", "alice").Return(&models.User{ID: "user-1", Username: "alice", Password: hash}, nil)
	tokenRepo.On("Create", mock.Anything).Return(nil)

	access, _, _, err := otherSvc.Login("alice", "password123")
	assert.NoError(t, err)

	svc := NewAuthService(userRepo, tokenRepo, testAuthConfig())
	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
