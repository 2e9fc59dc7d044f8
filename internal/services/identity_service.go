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

type identityService struct {
	repo      repositories.Repository
	hasher    auth.PasswordHasher
	signer    auth.TokenSigner
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewIdentityService(
	repo repositories.Repository,
	hasher auth.PasswordHasher,
	signer auth.TokenSigner,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) IdentityService {
	return &identityService{
		repo:      repo,
		hasher:    hasher,
		signer:    signer,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== REGISTRATION =====

func (s *identityService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	return s.register(ctx, req, models.RoleUser)
}

func (s *identityService) RegisterAdmin(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	return s.register(ctx, req, models.RoleAdmin)
}

func (s *identityService) register(ctx context.Context, req *RegisterRequest, role models.UserRole) (*RegisterResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err.Error())
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("Failed to check email availability", "error", err)
		return nil, NewUnexpectedError("failed to register user", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", "error", err)
		return nil, NewUnexpectedError("failed to register user", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		Role:         role,
		AuthProvider: models.ProviderLocal,
		PasswordHash: &hash,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		// The unique email index settles a concurrent registration race.
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("Failed to create user", "error", err)
		return nil, NewUnexpectedError("failed to register user", err)
	}

	s.logger.Info("User registered",
		"user_id", user.ID,
		"role", user.Role)

	s.publishUserRegistered(ctx, user)

	return &RegisterResponse{ID: user.ID, Email: user.Email}, nil
}

// ===== LOGIN =====

// Login authenticates local credentials. Unknown email and wrong password
// return the same error so responses cannot distinguish the two.
func (s *identityService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err.Error())
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to look up user", "error", err)
		return nil, NewUnexpectedError("failed to log in", err)
	}

	// Federated accounts have no password hash.
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	switch s.hasher.Verify(*user.PasswordHash, req.Password) {
	case auth.VerifyFailed:
		return nil, ErrInvalidCredentials
	case auth.VerifySuccessRehashNeeded:
		s.rehashPassword(ctx, user, req.Password)
	}

	return s.IssueToken(user)
}

// IssueToken signs a token for an already-authenticated user.
func (s *identityService) IssueToken(user *models.User) (*AuthResponse, error) {
	token, err := s.signer.Sign(user)
	if err != nil {
		s.logger.Error("Failed to sign token", "user_id", user.ID, "error", err)
		return nil, NewUnexpectedError("failed to issue token", err)
	}
	return &AuthResponse{
		Token:       token,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}

// rehashPassword upgrades a hash stored at a weaker cost. Best effort: login
// already succeeded, so failures are only logged.
func (s *identityService) rehashPassword(ctx context.Context, user *models.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("Failed to rehash password", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = &hash
	if err := s.repo.User().Update(ctx, user); err != nil {
		s.logger.Warn("Failed to store rehashed password", "user_id", user.ID, "error", err)
	}
}

// ===== USER ADMINISTRATION =====

func (s *identityService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user", "user_id", id, "error", err)
		return nil, NewUnexpectedError("failed to get user", err)
	}
	return user, nil
}

func (s *identityService) ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		s.logger.Error("Failed to list users", "error", err)
		return nil, NewUnexpectedError("failed to list users", err)
	}
	return &UserListResponse{Users: users, Total: total}, nil
}

func (s *identityService) UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err.Error())
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.repo.User().ExistsByEmail(ctx, *req.Email)
		if err != nil {
			s.logger.Error("Failed to check email availability", "error", err)
			return nil, NewUnexpectedError("failed to update user", err)
		}
		if exists {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.Role != nil {
		user.Role = models.UserRole(*req.Role)
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("Failed to update user", "user_id", id, "error", err)
		return nil, NewUnexpectedError("failed to update user", err)
	}

	s.logger.Info("User updated", "user_id", id)
	return user, nil
}

func (s *identityService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.User().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		s.logger.Error("Failed to delete user", "user_id", id, "error", err)
		return NewUnexpectedError("failed to delete user", err)
	}
	s.logger.Info("User deleted", "user_id", id)
	return nil
}

// ===== EVENTS =====

func (s *identityService) publishUserRegistered(ctx context.Context, user *models.User) {
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
