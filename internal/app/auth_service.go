package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"mindease-chat/internal/identity"
	"mindease-chat/internal/model"
	"mindease-chat/internal/pkg/jwtutil"
	"mindease-chat/internal/repository"
	"mindease-chat/internal/session"
	"mindease-chat/internal/transcript"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSignupFailed      = errors.New("could not create account")
	ErrInvalidCredential = errors.New("invalid email or password")
)

const (
	SignupSuccessMessage = "Signup successful. Please login."
	LoginSuccessMessage  = "Login successful."
	LogoutMessage        = "Logged out successfully."
)

// AuthService composes the identity provider client, the user profile store
// and the session store. Credential verification never happens locally.
type AuthService struct {
	identityClient *identity.Client
	userRepo       *repository.UserRepository
	sessions       *session.Store
	transcripts    *transcript.Store
	jwtSecret      string
	jwtExpiration  time.Duration
}

type SignupInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token   string
	Session session.Session
}

func NewAuthService(
	identityClient *identity.Client,
	userRepo *repository.UserRepository,
	sessions *session.Store,
	transcripts *transcript.Store,
	jwtSecret string,
	jwtExpiration time.Duration,
) *AuthService {
	return &AuthService{
		identityClient: identityClient,
		userRepo:       userRepo,
		sessions:       sessions,
		transcripts:    transcripts,
		jwtSecret:      jwtSecret,
		jwtExpiration:  jwtExpiration,
	}
}

// Signup creates the account at the identity provider, then writes the
// profile row with last_login left null until the first login.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || !strings.Contains(email, "@") || len(password) < 6 {
		return "", ErrInvalidInput
	}

	account, err := s.identityClient.SignUp(ctx, email, password)
	if err != nil {
		log.Printf("identity signup failed: %v", err)
		return "", ErrSignupFailed
	}

	user := &model.User{
		UID:         account.UID,
		Email:       email,
		LastLoginAt: nil,
	}
	if err := s.userRepo.Create(user); err != nil {
		return "", err
	}

	return SignupSuccessMessage, nil
}

// Login verifies credentials with the provider and, only on success, issues a
// fresh logged-in session. Any failure leaves existing sessions untouched.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	account, err := s.identityClient.SignIn(ctx, email, password)
	if err != nil {
		// Transport failures and provider rejections both read as a failed
		// login; the caller re-issues the action, there is no retry here.
		log.Printf("identity signin failed: %v", err)
		return nil, ErrInvalidCredential
	}

	if err := s.userRepo.UpdateLastLogin(account.UID, time.Now()); err != nil {
		return nil, err
	}

	sid := uuid.NewString()
	sess := session.Session{LoggedIn: true, UID: account.UID, Email: account.Email}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, sid, account.UID, account.Email)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, sid, sess); err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Session: sess}, nil
}

// Logout resets the session to the logged-out default and drops the
// in-flight transcript. Unconditional and idempotent.
func (s *AuthService) Logout(ctx context.Context, sid string) (string, error) {
	if sid != "" {
		if err := s.sessions.Delete(ctx, sid); err != nil {
			return "", err
		}
		if err := s.transcripts.Clear(ctx, sid); err != nil {
			return "", err
		}
	}
	return LogoutMessage, nil
}

// CurrentUser loads the profile row for a logged-in session.
func (s *AuthService) CurrentUser(sess session.Session) (*model.User, error) {
	if !sess.LoggedIn {
		return nil, ErrLoginRequired
	}
	return s.userRepo.GetByUID(sess.UID)
}
