package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"medifinder/internal/config"
	"medifinder/internal/entity"
	"medifinder/internal/repository"
)

const sessionTTL = 24 * time.Hour

// UserClaims is the JWT payload issued at login and checked on every
// dashboard request.
type UserClaims struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	PharmacyID string `json:"pharmacyId,omitempty"`
	jwt.RegisteredClaims
}

// UserService handles signup, login, and session validation.
type UserService struct {
	userRepo repository.UserRepository
	rdb      *redis.Client
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repository.UserRepository, rdb *redis.Client) *UserService {
	return &UserService{userRepo: userRepo, rdb: rdb}
}

// RegisterRequest carries the signup payload. PharmacyID is only honored
// for the pharmacy role.
type RegisterRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	PharmacyID string `json:"pharmacyId"`
}

// Register creates a new account. Emails are unique across roles.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*entity.User, error) {
	if req.Email == "" || req.Name == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: Email, name and password are required", ErrValidation)
	}
	role := req.Role
	if role == "" {
		role = entity.RoleCustomer
	}
	if role != entity.RoleCustomer && role != entity.RolePharmacy {
		return nil, fmt.Errorf("%w: Invalid role", ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && err != sql.ErrNoRows {
		logger.Error().Err(err).Msg("Error checking existing user")
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: An account with this email already exists", ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Error hashing password")
		return nil, err
	}

	user := &entity.User{
		ID:       newUserID(role),
		Email:    req.Email,
		Name:     req.Name,
		Phone:    req.Phone,
		Password: string(hashed),
		Role:     role,
	}
	if role == entity.RolePharmacy {
		user.PharmacyID = req.PharmacyID
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}
	return created, nil
}

// Login checks the password and issues a signed token. The session is
// mirrored in redis so it can be revoked without waiting for expiry.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: Email and password are required", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == sql.ErrNoRows {
		return "", nil, fmt.Errorf("%w: Invalid email or password", ErrUnauthorized)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Error getting user by email")
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, fmt.Errorf("%w: Invalid email or password", ErrUnauthorized)
	}

	claims := UserClaims{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		Role:       user.Role,
		PharmacyID: user.PharmacyID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JWTSecret())
	if err != nil {
		logger.Error().Err(err).Msg("Error signing token")
		return "", nil, err
	}

	if s.sessionsEnabled() {
		if err := s.rdb.Set(ctx, sessionKey(user.Email), token, sessionTTL).Err(); err != nil {
			logger.Error().Err(err).Msg("Error storing session in Redis")
		}
	}
	return token, user, nil
}

// ValidateToken parses a bearer token and checks it against the stored
// session when redis is available.
func (s *UserService) ValidateToken(ctx context.Context, tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return config.JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: Invalid or expired token", ErrUnauthorized)
	}

	if s.sessionsEnabled() {
		stored, err := s.rdb.Get(ctx, sessionKey(claims.Email)).Result()
		if err == redis.Nil || (err == nil && stored != tokenString) {
			return nil, fmt.Errorf("%w: Session expired, please log in again", ErrUnauthorized)
		}
		if err != nil && err != redis.Nil {
			logger.Error().Err(err).Msg("Error reading session from Redis")
		}
	}
	return claims, nil
}

// PharmacyIDForUser returns the pharmacy linked to a dashboard account,
// or "" when the account has none.
func (s *UserService) PharmacyIDForUser(ctx context.Context, userID string) (string, error) {
	return s.userRepo.PharmacyIDForUser(ctx, userID)
}

func (s *UserService) sessionsEnabled() bool {
	return s.rdb != nil && !config.IsTestEnv()
}

func sessionKey(email string) string {
	return "session:" + strings.ToLower(email)
}

func newUserID(role string) string {
	return fmt.Sprintf("%s-%d", role, time.Now().UnixNano())
}
