// Package auth issues and validates bearer tokens. Credentials live in
// their own table, never in the public tree; registration also creates
// the user's profile subtree and directory row.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/db"
	"github.com/recruiterhub/backend/internal/identity"
	"github.com/recruiterhub/backend/internal/profile"
	"github.com/recruiterhub/backend/internal/repository"
)

const accessTokenTTL = 72 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("email or username already registered")
)

type Service struct {
	secret   []byte
	appCtx   *app.AppContext
	creds    *repository.CredentialRepository
	profiles *profile.Service
}

// Claims carries the session identity inside the token, so a request can
// be attributed without a tree read.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

func NewService(secret string, appCtx *app.AppContext, profiles *profile.Service) *Service {
	return &Service{
		secret:   []byte(secret),
		appCtx:   appCtx,
		creds:    repository.NewCredentialRepository(appCtx.DB),
		profiles: profiles,
	}
}

// Register creates the credential row and the profile subtree, then
// signs a token for the new session.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (identity.Session, TokenResponse, error) {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return identity.Session{}, TokenResponse{}, errors.New("email, username, password required")
	}

	taken, err := s.taken(ctx, req.Email, req.Username)
	if err != nil {
		return identity.Session{}, TokenResponse{}, err
	}
	if taken {
		return identity.Session{}, TokenResponse{}, ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return identity.Session{}, TokenResponse{}, err
	}

	cred := db.Credential{
		SafeEmail:    identity.SafeKey(req.Email),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.creds.Upsert(ctx, cred); err != nil {
		return identity.Session{}, TokenResponse{}, err
	}

	if err := s.profiles.InsertNewUser(ctx, req.User); err != nil {
		return identity.Session{}, TokenResponse{}, err
	}

	session := identity.Session{Email: req.Email, Username: req.Username, Name: req.User.DisplayName()}
	tokens, err := s.generateToken(session)
	if err != nil {
		return identity.Session{}, TokenResponse{}, err
	}
	return session, tokens, nil
}

// Login verifies the password and rebuilds the session from the stored
// profile.
func (s *Service) Login(ctx context.Context, req LoginRequest) (identity.Session, TokenResponse, error) {
	cred, err := s.creds.FindBySafeEmail(ctx, identity.SafeKey(req.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return identity.Session{}, TokenResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return identity.Session{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		return identity.Session{}, TokenResponse{}, ErrInvalidCredentials
	}

	user, err := s.profiles.User(ctx, cred.Email)
	if err != nil {
		return identity.Session{}, TokenResponse{}, err
	}
	session := identity.Session{Email: cred.Email}
	if user != nil {
		session.Username = user.Username
		session.Name = user.DisplayName()
	}

	tokens, err := s.generateToken(session)
	if err != nil {
		return identity.Session{}, TokenResponse{}, err
	}
	return session, tokens, nil
}

// ValidateToken parses a bearer token back into the session it carries.
func (s *Service) ValidateToken(token string) (identity.Session, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return identity.Session{}, err
	}
	return identity.Session{Email: claims.Email, Username: claims.Username, Name: claims.Name}, nil
}

func (s *Service) generateToken(session identity.Session) (TokenResponse, error) {
	claims := Claims{
		Email:    session.Email,
		Username: session.Username,
		Name:     session.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

// taken checks both stores: the credentials table for the email and the
// user directory for the username. A missing directory means nobody has
// registered yet.
func (s *Service) taken(ctx context.Context, email, username string) (bool, error) {
	exists, err := s.creds.Exists(ctx, identity.SafeKey(email))
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	dirTaken, err := s.profiles.Taken(ctx, email, username)
	if err != nil {
		return false, nil // pre-first-registration: directory absent
	}
	return dirTaken, nil
}
