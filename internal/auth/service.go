package auth

import (
	"errors"
	"fmt"
	"time"

	"collabgo/backend/internal/models"
	"collabgo/backend/internal/storage"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Admission errors. A credential that fails any of these checks is rejected
// outright; no partial or anonymous connection is ever admitted.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrPrincipalNotFound = errors.New("principal not found")
)

const tokenIssuer = "collabgo-service"

// UserStore is the slice of the persistence layer the authenticator needs.
type UserStore interface {
	FindUserByID(id string) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
}

// Service validates bearer credentials presented at connection time and
// resolves them to principals. It shares the signing secret with the rest of
// the system's session tokens but evaluates every credential independently
// per connection; nothing is reused from an HTTP session.
type Service struct {
	secret []byte
	ttl    time.Duration
	store  UserStore
}

func NewService(secret []byte, ttl time.Duration, store UserStore) *Service {
	return &Service{secret: secret, ttl: ttl, store: store}
}

// GenerateToken issues a signed session token for the given user id.
func (s *Service) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(s.ttl).Unix(),
		"iat": time.Now().Unix(),
		"iss": tokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Authenticate validates the credential's signature and expiry, then
// resolves the embedded subject against the user store. The only side
// effect is that read.
func (s *Service) Authenticate(credential string) (*models.Principal, error) {
	if credential == "" {
		return nil, ErrMissingCredential
	}

	userID, err := s.subjectOf(credential)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUserByID(userID)
	if errors.Is(err, storage.ErrNotFound) {
		// Valid token for a deleted account.
		return nil, ErrPrincipalNotFound
	}
	if err != nil {
		// Fail closed on persistence errors.
		return nil, fmt.Errorf("resolving principal %s: %w", userID, err)
	}

	principal := user.AsPrincipal()
	return &principal, nil
}

// Login verifies an email/password pair and issues a session token.
func (s *Service) Login(email, password string) (string, *models.User, error) {
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredential
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return token, user, nil
}

// HashPassword derives the stored form of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) subjectOf(credential string) (string, error) {
	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredential
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredential
	}
	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidCredential
	}
	return userID, nil
}
