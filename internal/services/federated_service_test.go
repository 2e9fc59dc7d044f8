package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/auth"
	"github.com/ribbitreels/learning-service/internal/events"
	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/validator"
)

// stubVerifier returns a canned payload or error instead of calling Google.
type stubVerifier struct {
	payload *auth.FederatedPayload
	err     error
}

func (v *stubVerifier) Verify(ctx context.Context, token string) (*auth.FederatedPayload, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.payload, nil
}

func newTestFederatedService(t *testing.T, repo *mockRepository, verifier auth.FederatedTokenVerifier) (FederatedIdentityService, *events.MockEventPublisher) {
	t.Helper()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	v := validator.New()
	identity := NewIdentityService(repo, &stubHasher{}, testSigner(t), publisher, logger, v)
	service := NewFederatedIdentityService(repo, verifier, identity, publisher, logger, v)
	return service, publisher
}

func googlePayload() *auth.FederatedPayload {
	return &auth.FederatedPayload{
		Email:   "frog@example.com",
		Name:    "Frog",
		Subject: "google-subject-1",
		Picture: "https://example.com/frog.png",
	}
}

func TestFederatedService_LoginWithGoogle(t *testing.T) {
	ctx := context.Background()

	t.Run("BlankToken", func(t *testing.T) {
		service, _ := newTestFederatedService(t, newMockRepository(), &stubVerifier{payload: googlePayload()})

		_, err := service.LoginWithGoogle(ctx, &GoogleLoginRequest{IDToken: ""})
		if KindOf(err) != KindValidation {
			t.Fatalf("Expected validation error, got %v", err)
		}
	})

	t.Run("VerifierRejection", func(t *testing.T) {
		service, _ := newTestFederatedService(t, newMockRepository(), &stubVerifier{err: errors.New("bad signature")})

		_, err := service.LoginWithGoogle(ctx, &GoogleLoginRequest{IDToken: "token"})
		if KindOf(err) != KindUnauthorized {
			t.Fatalf("Expected unauthorized error, got %v", err)
		}
	})

	t.Run("MissingEmailClaim", func(t *testing.T) {
		payload := googlePayload()
		payload.Email = ""
		service, _ := newTestFederatedService(t, newMockRepository(), &stubVerifier{payload: payload})

		_, err := service.LoginWithGoogle(ctx, &GoogleLoginRequest{IDToken: "token"})
		if KindOf(err) != KindValidation {
			t.Fatalf("Expected validation error, got %v", err)
		}
	})

	t.Run("ProvisionsOnFirstLogin", func(t *testing.T) {
		repo := newMockRepository()
		service, publisher := newTestFederatedService(t, repo, &stubVerifier{payload: googlePayload()})

		resp, err := service.LoginWithGoogle(ctx, &GoogleLoginRequest{IDToken: "token"})
		if err != nil {
			t.Fatalf("LoginWithGoogle failed: %v", err)
		}
		if resp.Token == "" {
			t.Error("Expected a signed token")
		}
		if resp.DisplayName != "Frog" {
			t.Errorf("Expected display name Frog, got %s", resp.DisplayName)
		}

		if len(repo.users) != 1 {
			t.Fatalf("Expected one provisioned user, got %d", len(repo.users))
		}
		for _, user := range repo.users {
			if user.AuthProvider != models.ProviderGoogle {
				t.Errorf("Expected provider google, got %s", user.AuthProvider)
			}
			if user.Role != models.RoleUser {
				t.Errorf("Expected role user, got %s", user.Role)
			}
			if user.PasswordHash != nil {
				t.Error("Federated user must not have a password hash")
			}
			if user.ProviderUserID == nil || *user.ProviderUserID != "google-subject-1" {
				t.Error("Provider subject was not recorded")
			}
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeUserRegistered {
			t.Errorf("Expected one user.registered event, got %v", published)
		}
	})

	t.Run("ReusesExistingUser", func(t *testing.T) {
		repo := newMockRepository()
		service, publisher := newTestFederatedService(t, repo, &stubVerifier{payload: googlePayload()})

		if _, err := service.LoginWithGoogle(ctx, &GoogleLoginRequest{IDToken: "token"}); err != nil {
			t.Fatalf("First login failed: %v", err)
		}
		publisher.ClearEvents()

		if _, err := service.LoginWithGoogle(ctx, &GoogleLoginRequest{IDToken: "token"}); err != nil {
			t.Fatalf("Second login failed: %v", err)
		}
		if len(repo.users) != 1 {
			t.Errorf("Expected the same user to be reused, got %d users", len(repo.users))
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("Repeat login must not emit another registration event")
		}
	})

	t.Run("EmailOwnedByLocalAccount", func(t *testing.T) {
		repo := newMockRepository()
		hash := "hashed:hop-hop-hop-1"
		localID := uuid.New()
		repo.users[localID] = &models.User{
			ID:           localID,
			Email:        "frog@example.com",
			DisplayName:  "Frog",
			Role:         models.RoleUser,
			AuthProvider: models.ProviderLocal,
			PasswordHash: &hash,
		}
		service, _ := newTestFederatedService(t, repo, &stubVerifier{payload: googlePayload()})

		_, err := service.LoginWithGoogle(ctx, &GoogleLoginRequest{IDToken: "token"})
		if !errors.Is(err, ErrProviderMismatch) {
			t.Fatalf("Expected ErrProviderMismatch, got %v", err)
		}
	})

	t.Run("FallsBackToEmailForBlankName", func(t *testing.T) {
		payload := googlePayload()
		payload.Name = ""
		repo := newMockRepository()
		service, _ := newTestFederatedService(t, repo, &stubVerifier{payload: payload})

		resp, err := service.LoginWithGoogle(ctx, &GoogleLoginRequest{IDToken: "token"})
		if err != nil {
			t.Fatalf("LoginWithGoogle failed: %v", err)
		}
		if resp.DisplayName != "frog@example.com" {
			t.Errorf("Expected email fallback display name, got %s", resp.DisplayName)
		}
	})
}
