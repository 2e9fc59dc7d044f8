package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/auth"
	"github.com/ribbitreels/learning-service/internal/events"
	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
	"github.com/ribbitreels/learning-service/internal/validator"
)

type federatedIdentityService struct {
	repo      repositories.Repository
	verifier  auth.FederatedTokenVerifier
	identity  IdentityService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewFederatedIdentityService(
	repo repositories.Repository,
	verifier auth.FederatedTokenVerifier,
	identity IdentityService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) FederatedIdentityService {
	return &federatedIdentityService{
		repo:      repo,
		verifier:  verifier,
		identity:  identity,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// LoginWithGoogle verifies a Google ID token, provisions a user on first
// sight and issues a local session token.
func (s *federatedIdentityService) LoginWithGoogle(ctx context.Context, req *GoogleLoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err.Error())
	}

	payload, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		s.logger.Info("Google token verification failed", "error", err)
		return nil, NewUnauthorizedError("invalid google token")
	}
	if payload.Email == "" {
		return nil, NewValidationError("google token carries no email claim")
	}

	user, err := s.resolveUser(ctx, payload)
	if err != nil {
		return nil, err
	}

	return s.identity.IssueToken(user)
}

// resolveUser finds the account owning the verified email, or provisions one.
func (s *federatedIdentityService) resolveUser(ctx context.Context, payload *auth.FederatedPayload) (*models.User, error) {
	user, err := s.repo.User().GetByEmail(ctx, payload.Email)
	if err == nil {
		if user.AuthProvider != models.ProviderGoogle {
			return nil, ErrProviderMismatch
		}
		return user, nil
	}
	if !repositories.IsNotFoundError(err) {
		s.logger.Error("Failed to look up user", "error", err)
		return nil, NewUnexpectedError("failed to log in", err)
	}

	return s.provisionUser(ctx, payload)
}

func (s *federatedIdentityService) provisionUser(ctx context.Context, payload *auth.FederatedPayload) (*models.User, error) {
	displayName := payload.Name
	if displayName == "" {
		displayName = payload.Email
	}

	user := &models.User{
		ID:             uuid.New(),
		Email:          payload.Email,
		DisplayName:    displayName,
		Role:           models.RoleUser,
		AuthProvider:   models.ProviderGoogle,
		ProviderUserID: &payload.Subject,
	}
	if payload.Picture != "" {
		user.AvatarURL = &payload.Picture
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		// A concurrent first login for the same email may have won the
		// insert; fall back to the stored record.
		if repositories.IsDuplicateKeyError(err) {
			existing, getErr := s.repo.User().GetByEmail(ctx, payload.Email)
			if getErr != nil {
				s.logger.Error("Failed to resolve user after insert race", "error", getErr)
				return nil, NewUnexpectedError("failed to log in", getErr)
			}
			if existing.AuthProvider != models.ProviderGoogle {
				return nil, ErrProviderMismatch
			}
			return existing, nil
		}
		s.logger.Error("Failed to provision federated user", "error", err)
		return nil, NewUnexpectedError("failed to log in", err)
	}

	s.logger.Info("Federated user provisioned", "user_id", user.ID)
	s.publishUserRegistered(ctx, user)

	return user, nil
}

func (s *federatedIdentityService) publishUserRegistered(ctx context.Context, user *models.User) {
	if s.publisher == nil {
		return
	}
	event := events.NewEvent(events.TypeUserRegistered, events.UserRegisteredEvent{
		UserID:       user.ID.String(),
		Email:        user.Email,
		Role:         string(user.Role),
		AuthProvider: string(user.AuthProvider),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish user.registered event", "user_id", user.ID, "error", err)
	}
}
