package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
)

// Destination is where the UI should land after authentication.
type Destination string

const (
	DestinationHome  Destination = "home"
	DestinationAdmin Destination = "admin"
)

// DestinationFor returns the landing destination for a session.
func DestinationFor(session *models.UserSession) Destination {
	if session != nil && session.IsAdmin {
		return DestinationAdmin
	}
	return DestinationHome
}

// SessionWriter persists a freshly authenticated session.
type SessionWriter interface {
	SetSession(session *models.UserSession) error
}

// SessionService wraps the authentication endpoints.
type SessionService struct {
	client APIClient
	writer SessionWriter
}

// NewSessionService creates a new SessionService.
func NewSessionService(client APIClient, writer SessionWriter) *SessionService {
	return &SessionService{
		client: client,
		writer: writer,
	}
}

// SignUp registers a user and signs them in.
func (s *SessionService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.UserSession, Destination, error) {
	var session models.UserSession
	if err := s.client.Post(ctx, "/auth/signup", req, &session); err != nil {
		return nil, "", fmt.Errorf("failed to sign up %s: %w", req.Email, err)
	}
	return s.persist(&session)
}

// SignIn authenticates with email and password.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (*models.UserSession, Destination, error) {
	req := models.SignInRequest{Email: email, Password: password}
	var session models.UserSession
	if err := s.client.Post(ctx, "/auth/signin", req, &session); err != nil {
		return nil, "", fmt.Errorf("failed to sign in %s: %w", email, err)
	}
	return s.persist(&session)
}

func (s *SessionService) persist(session *models.UserSession) (*models.UserSession, Destination, error) {
	if err := s.writer.SetSession(session); err != nil {
		return nil, "", fmt.Errorf("failed to persist session: %w", err)
	}
	return session, DestinationFor(session), nil
}
