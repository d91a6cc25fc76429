package services

import (
	"context"
	"fmt"
	"strings"

	"sosmed/internal/apperror"
	"sosmed/internal/logger"
	"sosmed/internal/models"
	"sosmed/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	FullName   string `json:"fullName" form:"fullName" validate:"required,max=100"`
	Username   string `json:"userName" form:"userName" validate:"required,min=3,max=100"`
	Email      string `json:"email" form:"email" validate:"required,email"`
	NationalID string `json:"nationalId" form:"nationalId" validate:"omitempty,max=32"`
	Password   string `json:"password" form:"password"`
	// ProfilePicture holds the raw bytes of the optional picture upload.
	ProfilePicture []byte `json:"-" form:"-"`
}

// Session is a signed-in user with its token pair.
type Session struct {
	User   *models.User
	Tokens TokenPair
}

// AuthService handles registration, login and the lifecycle of sessions.
type AuthService struct {
	store       *repositories.Store
	coordinator *Coordinator
	tokens      *TokenEngine
	media       MediaStore
	notifier    Notifier
	bcryptCost  int
	dummyHash   []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(store *repositories.Store, coordinator *Coordinator, tokens *TokenEngine,
	media MediaStore, notifier Notifier, bcryptCost int) *AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password-1!"), bcryptCost)
	if err != nil {
		logger.Warn.Printf("failed to prepare dummy hash: %v", err)
	}
	return &AuthService{
		store:       store,
		coordinator: coordinator,
		tokens:      tokens,
		media:       media,
		notifier:    notifier,
		bcryptCost:  bcryptCost,
		dummyHash:   dummy,
	}
}

// Tokens exposes the engine the service issues sessions with.
func (s *AuthService) Tokens() *TokenEngine {
	return s.tokens
}

// Register creates a user and signs them in. When no password is supplied one
// is generated and handed to the notifier.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = normalizeIdentity(in.Username)
	in.Email = normalizeIdentity(in.Email)
	in.NationalID = normalizeIdentity(in.NationalID)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	password := in.Password
	generated := ""
	if password == "" {
		var err error
		if generated, err = GeneratePassword(); err != nil {
			return nil, err
		}
		password = generated
	} else if err := CheckPasswordPolicy(password); err != nil {
		return nil, err
	}

	if err := s.checkAvailable(ctx, in); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName: in.FullName,
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
	}
	if in.NationalID != "" {
		user.NationalID = &in.NationalID
	}

	if len(in.ProfilePicture) > 0 {
		ref, err := s.media.Upload(ctx, in.ProfilePicture)
		if err != nil {
			return nil, asDependencyError(err, "Unable to upload profile picture")
		}
		user.ProfilePicture = ref
	}

	if err := s.store.Users.Create(ctx, user); err != nil {
		s.releaseMedia(ctx, user.ProfilePicture)
		if apperror.Is(err, apperror.KindDuplicateKey) {
			return nil, apperror.Wrap(apperror.KindDuplicateKey, err, "User already exists!")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendWelcome(ctx, user.Email, generated); err != nil {
			logger.Warn.Printf("welcome notification for user %s failed: %v", user.ID, err)
		}
	}

	tokens, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	logger.Info.Printf("user %s registered", user.ID)
	return &Session{User: user, Tokens: tokens}, nil
}

// checkAvailable reports the first taken identity with a field-specific
// message. The unique indexes still decide races.
func (s *AuthService) checkAvailable(ctx context.Context, in RegisterInput) error {
	checks := []struct {
		value  string
		lookup func(context.Context, string) (*models.User, error)
		taken  string
	}{
		{in.Email, s.store.Users.GetByEmail, "This email is already taken."},
		{in.Username, s.store.Users.GetByUsername, "This username is already taken."},
		{in.NationalID, s.store.Users.GetByNationalID, "This national id is already taken."},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		_, err := c.lookup(ctx, c.value)
		switch {
		case err == nil:
			return apperror.Duplicate("%s", c.taken)
		case apperror.Is(err, apperror.KindNotFound):
		default:
			return fmt.Errorf("failed to check identity: %w", err)
		}
	}
	return nil
}

// Login authenticates by username, email or national id. Unknown users and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperror.Validation("Identifier and password are required!")
	}

	user, err := s.store.Users.GetByIdentifier(ctx, normalizeIdentity(identifier))
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	tokens, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Tokens: tokens}, nil
}

func invalidCredentials() error {
	return apperror.New(apperror.KindAuthenticationFailed, "invalid credentials")
}

// Refresh mints a new access token from a valid refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, *Claims, error) {
	claims, err := s.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", nil, err
	}
	access, err := s.tokens.IssueAccess(claims.UserID, claims.Username)
	if err != nil {
		return "", nil, err
	}
	return access, claims, nil
}

// Logout revokes the refresh token. An already invalid token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		if apperror.Is(err, apperror.KindAuthorizationFailed) {
			return nil
		}
		return err
	}
	return s.tokens.Revoke(ctx, claims)
}

// DeleteAccount removes the principal's account. The refresh token must be
// valid and belong to the principal.
func (s *AuthService) DeleteAccount(ctx context.Context, principalID, refreshToken string) (*UserDeletion, error) {
	claims, err := s.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.UserID != principalID {
		return nil, apperror.Unauthorized("Refresh token does not belong to the current user")
	}

	deletion, err := s.coordinator.DeleteUser(ctx, principalID)
	if err != nil {
		return nil, err
	}

	s.releaseMedia(ctx, deletion.User.ProfilePicture)
	for _, ref := range deletion.PostMedia {
		s.releaseMedia(ctx, ref)
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		logger.Warn.Printf("failed to revoke session of deleted user %s: %v", principalID, err)
	}
	logger.Info.Printf("user %s deleted: %d posts, %d comments, %d likes",
		principalID, deletion.PostsDeleted, deletion.CommentsDeleted, deletion.LikesDeleted)
	return deletion, nil
}

func (s *AuthService) releaseMedia(ctx context.Context, ref models.MediaRef) {
	if ref.PublicID == "" || s.media == nil {
		return
	}
	if err := s.media.Delete(ctx, ref.PublicID); err != nil {
		logger.Warn.Printf("failed to release media %s: %v", ref.PublicID, err)
	}
}
