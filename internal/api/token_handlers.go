package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/service"
)

func (s *Server) registerTokenRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createToken",
		Method:      http.MethodPost,
		Path:        "/api/v1/tokens",
		Summary:     "Create access token",
		Description: "Authenticates email and password and returns a bearer token",
		Tags:        []string{"Authentication"},
	}, s.handleCreateToken)
}

// CreateTokenRequest is the request body for token creation.
type CreateTokenRequest struct {
	Email    string `json:"email" maxLength:"254" doc:"Email address"`
	Password string `json:"password" maxLength:"1024" doc:"Password"`
}

// CreateTokenInput wraps the token request with client headers for Huma.
type CreateTokenInput struct {
	Body          CreateTokenRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// TokenOutput wraps the issued token for Huma.
type TokenOutput struct {
	Body service.TokenResponse
}

func (s *Server) handleCreateToken(ctx context.Context, input *CreateTokenInput) (*TokenOutput, error) {
	// Per-IP throttle against credential stuffing. Applies before any
	// credential check so a flood never reaches the hashing path.
	ip := clientIP(input.XForwardedFor, input.XRealIP)
	if !s.loginRateLimiter.Allow(ip) {
		s.logger.Warn("Login rate limit exceeded", "ip", ip)
		return nil, domainerrors.RateLimited("too many login attempts, try again later")
	}

	resp, err := s.services.Auth.IssueToken(ctx, service.TokenRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &TokenOutput{Body: *resp}, nil
}
