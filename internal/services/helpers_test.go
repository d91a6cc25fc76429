package services_test

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"sosmed/internal/config"
	"sosmed/internal/logger"
	"sosmed/internal/models"
	"sosmed/internal/repositories"
	"sosmed/internal/services"
	"sosmed/internal/testutil"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// MockMediaStore is a mock implementation of services.MediaStore
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, data []byte) (models.MediaRef, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(models.MediaRef), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

// MockNotifier is a mock implementation of services.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendWelcome(ctx context.Context, email, generatedPassword string) error {
	args := m.Called(ctx, email, generatedPassword)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:        config.EnvDevelopment,
		AccessTokenSecret:  "test_access_secret",
		RefreshTokenSecret: "test_refresh_secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    24 * time.Hour,
		BcryptCost:         bcrypt.MinCost,
		Cookie:             config.ResolveCookiePolicy(config.EnvDevelopment, 24*time.Hour),
	}
}

type harness struct {
	db          *gorm.DB
	store       *repositories.Store
	coordinator *services.Coordinator
	tokens      *services.TokenEngine
	media       *MockMediaStore
	notifier    *MockNotifier
	auth        *services.AuthService
	content     *services.ContentService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	store := repositories.NewStore(db)
	coordinator := services.NewCoordinator(store)
	tokens := services.NewTokenEngine(testConfig(), repositories.NewMemoryRevocationStore())
	media := new(MockMediaStore)
	notifier := new(MockNotifier)
	return &harness{
		db:          db,
		store:       store,
		coordinator: coordinator,
		tokens:      tokens,
		media:       media,
		notifier:    notifier,
		auth:        services.NewAuthService(store, coordinator, tokens, media, notifier, bcrypt.MinCost),
		content:     services.NewContentService(store, coordinator, media),
	}
}

func (h *harness) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		FullName: "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$04$notarealhash",
	}
	require.NoError(t, h.store.Users.Create(context.Background(), user))
	return user
}
