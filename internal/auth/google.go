package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// FederatedPayload is the identity extracted from a verified third-party
// token.
type FederatedPayload struct {
	Email   string
	Name    string
	Subject string
	Picture string
}

// FederatedTokenVerifier validates a third-party identity token against a
// configured audience.
type FederatedTokenVerifier interface {
	Verify(ctx context.Context, token string) (*FederatedPayload, error)
}

type googleVerifier struct {
	audience string
}

// NewGoogleVerifier creates a verifier for Google ID tokens issued to the
// given OAuth client id.
func NewGoogleVerifier(clientID string) FederatedTokenVerifier {
	return &googleVerifier{audience: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, token string) (*FederatedPayload, error) {
	payload, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("google id token validation failed: %w", err)
	}

	result := &FederatedPayload{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		result.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		result.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		result.Picture = picture
	}
	return result, nil
}
