package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/policy"
	"alcyxob/fitness-coach/internal/repository"
	"alcyxob/fitness-coach/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRole          = errors.New("role must be admin, trainer or client")
	ErrUploadURLError       = errors.New("failed to generate upload URL")
)

// --- Service Interface ---
type AuthService interface {
	Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	Onboard(ctx context.Context, principal *policy.Principal, userID primitive.ObjectID, name, country, state string) (*domain.User, error)
	RequestProfilePictureUploadURL(ctx context.Context, principal *policy.Principal, contentType string) (*UploadURLResponse, error)
	ConfirmProfilePicture(ctx context.Context, principal *policy.Principal, objectKey string) (*domain.User, error)
	GetJWTSecret() string
}

// UploadURLResponse carries a pre-signed upload URL and the object key the
// client reports back on confirm.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Implementation ---

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	profileRepo   repository.TrainerProfileRepository
	engine        *policy.Engine
	fileStorage   storage.FileStorage
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.TrainerProfileRepository,
	engine *policy.Engine,
	fileStorage storage.FileStorage,
	jwtSecret string,
	jwtExpiration time.Duration,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		engine:        engine,
		fileStorage:   fileStorage,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new user registration. Registration is the one
// operation open to unauthenticated callers; the engine is still consulted
// so the rule lives in one place.
func (s *authService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}
	if !role.Known() {
		return nil, ErrInvalidRole
	}

	decision, err := s.engine.Authorize(ctx, nil, policy.KindUser, policy.OpRegister, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	// Check if user already exists
	_, err = s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		// ID, CreatedAt, UpdatedAt set by the repository layer
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = userID

	// Trainers get an empty profile immediately; it is filled in later.
	if role == domain.RoleTrainer {
		_, err = s.profileRepo.Create(ctx, &domain.TrainerProfile{UserID: userID})
		if err != nil {
			return nil, err
		}
	}

	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		err = errors.New("email and password cannot be empty")
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed // User not found maps to auth failure
			return
		}
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		err = ErrAuthenticationFailed
		user = nil
		return
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// Onboard fills in the post-registration profile fields. Self-service only;
// the engine rejects any attempt to onboard another user.
func (s *authService) Onboard(ctx context.Context, principal *policy.Principal, userID primitive.ObjectID, name, country, state string) (*domain.User, error) {
	if name == "" || country == "" || state == "" {
		return nil, errors.New("name, country, and state are required")
	}

	decision, err := s.engine.Authorize(ctx, principal, policy.KindUser, policy.OpOnboard, &policy.Payload{UserID: userID})
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	err = s.userRepo.UpdateOnboarding(ctx, userID, name, country, state)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// RequestProfilePictureUploadURL generates a pre-signed URL for the caller
// to upload their profile picture directly to object storage.
func (s *authService) RequestProfilePictureUploadURL(ctx context.Context, principal *policy.Principal, contentType string) (*UploadURLResponse, error) {
	if principal == nil {
		return nil, denied(policy.ReasonNotAuthenticated)
	}
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, errors.New("invalid or missing image content type")
	}

	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("profile-pictures", principal.ID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmProfilePicture records the uploaded object as the caller's profile
// picture. Called after the client has PUT the file to the pre-signed URL.
func (s *authService) ConfirmProfilePicture(ctx context.Context, principal *policy.Principal, objectKey string) (*domain.User, error) {
	if principal == nil {
		return nil, denied(policy.ReasonNotAuthenticated)
	}
	if objectKey == "" {
		return nil, errors.New("object key is required")
	}
	// Keys are namespaced per user; refuse a key outside the caller's prefix.
	if !strings.HasPrefix(objectKey, path.Join("profile-pictures", principal.ID.Hex())+"/") {
		return nil, denied("object key does not belong to this user")
	}

	url := s.fileStorage.ObjectURL(objectKey)
	err := s.userRepo.SetProfilePictureURL(ctx, principal.ID, url)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`  // User ID
	Role   domain.Role `json:"role"` // User Role
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fitness-coach",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
