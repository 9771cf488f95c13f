package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/freshcart-app/account-service/internal/metrics"
	"github.com/freshcart-app/account-service/internal/models"
	"github.com/freshcart-app/account-service/internal/provider"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	findByIDFunc      func(ctx context.Context, id uuid.UUID) (*models.User, error)
	findByEmailFunc   func(ctx context.Context, email string) (*models.User, error)
	createFunc        func(ctx context.Context, user *models.User) (bool, error)
	updateFunc        func(ctx context.Context, user *models.User) error
	listRidersFunc    func(ctx context.Context, status models.ApprovalStatus) ([]models.User, error)
	findRiderByIDFunc func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) (bool, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return false, errors.New("not implemented")
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) ListRiders(ctx context.Context, status models.ApprovalStatus) ([]models.User, error) {
	if m.listRidersFunc != nil {
		return m.listRidersFunc(ctx, status)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindRiderByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.findRiderByIDFunc != nil {
		return m.findRiderByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Mock provider client
// =============================================================================

type mockProviderClient struct {
	signUpFunc   func(ctx context.Context, email, password string, meta provider.Metadata) (*provider.Identity, error)
	signInFunc   func(ctx context.Context, email, password string) (*provider.Identity, error)
	recoverFunc  func(ctx context.Context, email string) error
	signUpCalls  int
	recoverCalls int
}

func (m *mockProviderClient) SignUp(ctx context.Context, email, password string, meta provider.Metadata) (*provider.Identity, error) {
	m.signUpCalls++
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, email, password, meta)
	}
	return nil, errors.New("not implemented")
}

func (m *mockProviderClient) SignInWithPassword(ctx context.Context, email, password string) (*provider.Identity, error) {
	if m.signInFunc != nil {
		return m.signInFunc(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockProviderClient) ResetPasswordForEmail(ctx context.Context, email string) error {
	m.recoverCalls++
	if m.recoverFunc != nil {
		return m.recoverFunc(ctx, email)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func newTestRecorder() metrics.Recorder {
	return metrics.NewCollector(prometheus.NewRegistry())
}
