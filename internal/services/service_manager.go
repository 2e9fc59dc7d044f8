package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ribbitreels/learning-service/internal/auth"
	"github.com/ribbitreels/learning-service/internal/events"
	"github.com/ribbitreels/learning-service/internal/repositories"
	"github.com/ribbitreels/learning-service/internal/validator"
)

// ServiceManagerDeps carries everything the services need. The publisher
// may be nil, in which case no events are emitted.
type ServiceManagerDeps struct {
	Repo      repositories.Repository
	Hasher    auth.PasswordHasher
	Signer    auth.TokenSigner
	Verifier  auth.FederatedTokenVerifier
	Publisher events.EventPublisher
	Logger    *slog.Logger
	Validator *validator.Validator
}

// serviceManager implements ServiceManager
type serviceManager struct {
	deps ServiceManagerDeps

	identityService   IdentityService
	federatedService  FederatedIdentityService
	assignmentService AssignmentService
	progressService   ProgressService
	branchService     BranchService
	leafService       LeafService
	reportService     ReportService

	initialized bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(deps ServiceManagerDeps) ServiceManager {
	return &serviceManager{deps: deps}
}

// Initialize wires up all services. Idempotent.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if sm.deps.Repo == nil {
		return fmt.Errorf("repository is required")
	}
	if sm.deps.Signer == nil {
		return fmt.Errorf("token signer is required")
	}
	if sm.deps.Hasher == nil {
		return fmt.Errorf("password hasher is required")
	}

	sm.deps.Logger.Info("Initializing service manager")

	sm.identityService = NewIdentityService(
		sm.deps.Repo, sm.deps.Hasher, sm.deps.Signer, sm.deps.Publisher, sm.deps.Logger, sm.deps.Validator)
	sm.federatedService = NewFederatedIdentityService(
		sm.deps.Repo, sm.deps.Verifier, sm.identityService, sm.deps.Publisher, sm.deps.Logger, sm.deps.Validator)
	sm.assignmentService = NewAssignmentService(sm.deps.Repo, sm.deps.Logger, sm.deps.Validator)
	sm.progressService = NewProgressService(sm.deps.Repo, sm.deps.Publisher, sm.deps.Logger, sm.deps.Validator)
	sm.branchService = NewBranchService(sm.deps.Repo, sm.deps.Logger, sm.deps.Validator)
	sm.leafService = NewLeafService(sm.deps.Repo, sm.deps.Logger, sm.deps.Validator)
	sm.reportService = NewReportService(sm.deps.Repo, sm.deps.Logger)

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully")

	return nil
}

// HealthCheck verifies the backing stores are reachable.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

// Shutdown releases resources owned by the services.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Warn("Failed to close event publisher", "error", err)
		}
	}

	sm.initialized = false
	return nil
}

// Service getters

func (sm *serviceManager) Identity() IdentityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.identityService
}

func (sm *serviceManager) Federated() FederatedIdentityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.federatedService
}

func (sm *serviceManager) Assignment() AssignmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.assignmentService
}

func (sm *serviceManager) Progress() ProgressService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.progressService
}

func (sm *serviceManager) Branch() BranchService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.branchService
}

func (sm *serviceManager) Leaf() LeafService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.leafService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.reportService
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}
