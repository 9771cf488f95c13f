package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freshcart-app/account-service/internal/metrics"
	"github.com/freshcart-app/account-service/internal/models"
	"github.com/freshcart-app/account-service/internal/provider"
	"github.com/freshcart-app/account-service/internal/repository"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/redis/go-redis/v9"
)

const (
	// Bounded wait for the provider's asynchronous profile trigger:
	// a fixed number of short polls, then an idempotent fallback
	// insert. Keeps signup latency predictable regardless of whether
	// the trigger fires before, during, or after the wait.
	defaultPollAttempts = 3
	defaultPollDelay    = 500 * time.Millisecond

	refreshTokenKey = "refresh_token:%s"
)

// SignUpRequest carries signup input.
type SignUpRequest struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     models.UserRole
}

// ProfileSummary is the redacted profile returned with tokens.
type ProfileSummary struct {
	ID    uuid.UUID       `json:"id"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

// AuthResponse is returned from signup, sign-in, and refresh.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"`
	User         ProfileSummary `json:"user"`
	Message      string         `json:"message,omitempty"`
}

// UpdateProfileRequest carries self-service profile changes. Role and
// approval state are not writable here.
type UpdateProfileRequest struct {
	FullName string
	Phone    string
}

// AccountService drives account provisioning and session lifecycle.
type AccountService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*AuthResponse, error)
	SignOut(ctx context.Context, token string) error
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ResetPassword(ctx context.Context, email string) error
	Profile(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*models.User, error)
}

type accountService struct {
	users    repository.UserRepository
	provider provider.Client
	jwt      JWTService
	redis    *redis.Client
	metrics  metrics.Recorder
	logger   *slog.Logger

	pollAttempts int
	pollDelay    time.Duration
	refreshTTL   time.Duration
}

// NewAccountService creates an AccountService instance.
func NewAccountService(
	users repository.UserRepository,
	providerClient provider.Client,
	jwtService JWTService,
	redisClient *redis.Client,
	recorder metrics.Recorder,
	logger *slog.Logger,
	refreshTTL time.Duration,
) AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &accountService{
		users:        users,
		provider:     providerClient,
		jwt:          jwtService,
		redis:        redisClient,
		metrics:      recorder,
		logger:       logger,
		pollAttempts: defaultPollAttempts,
		pollDelay:    defaultPollDelay,
		refreshTTL:   refreshTTL,
	}
}

func (s *accountService) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}
	if err := s.validateSignUp(&req); err != nil {
		return nil, err
	}

	identity, err := s.provider.SignUp(ctx, req.Email, req.Password, provider.Metadata{
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     string(req.Role),
	})
	if err != nil {
		s.metrics.RecordSignup(string(req.Role), metrics.OutcomeRejected)
		return nil, err
	}

	// Confirmation-required flows can defer record materialization.
	// Without an identity id there is nothing to reconcile against.
	if identity == nil || identity.ID == uuid.Nil {
		s.metrics.RecordSignup(string(req.Role), metrics.OutcomeRejected)
		return nil, ErrProvisioning
	}

	profile := s.reconcileProfile(ctx, identity.ID, req)

	resp, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, err
	}

	if identity.EmailConfirmed() {
		resp.Message = "signup successful"
	} else {
		resp.Message = "signup successful, please verify your email"
	}

	s.metrics.RecordSignup(string(req.Role), metrics.OutcomeSuccess)
	return resp, nil
}

// reconcileProfile waits out the provider's asynchronous profile
// trigger, then falls back to inserting the row itself. A conflict on
// the fallback insert means the trigger won the race and is treated as
// success. Insert failures beyond that are logged and swallowed: the
// identity exists, so the caller gets a token and a best-effort
// profile rather than an error.
func (s *accountService) reconcileProfile(ctx context.Context, id uuid.UUID, req SignUpRequest) *models.User {
	for attempt := 1; attempt <= s.pollAttempts && ctx.Err() == nil; attempt++ {
		select {
		case <-ctx.Done():
			continue
		case <-time.After(s.pollDelay):
		}

		user, err := s.users.FindByID(ctx, id)
		if err == nil {
			s.metrics.RecordReconciliation(metrics.ReconcileTrigger)
			return user
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("profile poll failed",
				slog.String("user_id", id.String()),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
		}
	}

	fallback := models.NewProfile(id, req.Email, req.FullName, req.Phone, req.Role)

	inserted, err := s.users.Create(ctx, fallback)
	if err != nil {
		s.logger.Error("fallback profile insert failed, continuing with in-memory profile",
			slog.String("user_id", id.String()),
			slog.String("error", err.Error()))
		s.metrics.RecordReconciliation(metrics.ReconcileDegraded)
		return fallback
	}

	if inserted {
		s.metrics.RecordReconciliation(metrics.ReconcileFallback)
		return fallback
	}

	// The trigger (or a concurrent signup of the same identity) beat
	// the fallback insert. The existing row is authoritative.
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("profile re-fetch after insert conflict failed, continuing with in-memory profile",
			slog.String("user_id", id.String()),
			slog.String("error", err.Error()))
		s.metrics.RecordReconciliation(metrics.ReconcileDegraded)
		return fallback
	}
	s.metrics.RecordReconciliation(metrics.ReconcileConflict)
	return user
}

func (s *accountService) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	if email == "" || password == "" {
		return nil, validationErrorf("email and password are required")
	}

	identity, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.metrics.RecordSignIn(metrics.OutcomeRejected)
		var perr *provider.Error
		if errors.As(err, &perr) && perr.StatusCode < 500 {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Identity without a profile row: the trigger never
			// fired and signup's fallback did not stick either.
			s.logger.Error("sign-in found identity without profile",
				slog.String("user_id", identity.ID.String()))
			s.metrics.RecordSignIn(metrics.OutcomeRejected)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Checked after password verification so pending-approval and
	// failed-password remain distinguishable outcomes.
	if user.Role == models.RoleRider && user.ApprovalStatus != models.ApprovalApproved {
		s.metrics.RecordSignIn(metrics.OutcomePending)
		return nil, &PendingApprovalError{Status: user.ApprovalStatus}
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSignIn(metrics.OutcomeSuccess)
	return resp, nil
}

func (s *accountService) SignOut(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return err
	}

	if err := s.redis.Del(ctx, fmt.Sprintf(refreshTokenKey, claims.UserID)).Err(); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *accountService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.redis.Get(ctx, fmt.Sprintf(refreshTokenKey, claims.UserID)).Result()
	if err != nil || stored != refreshToken {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *accountService) ResetPassword(ctx context.Context, email string) error {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return validationErrorf("a valid email is required")
	}
	return s.provider.ResetPasswordForEmail(ctx, email)
}

func (s *accountService) Profile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*models.User, error) {
	if req.FullName == "" {
		return nil, validationErrorf("full name is required")
	}
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.FullName = req.FullName
	user.Phone = phone
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// issueTokens mints the access/refresh pair and stores the refresh
// token keyed by user id, replacing any previous one.
func (s *accountService) issueTokens(ctx context.Context, user *models.User) (*AuthResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.redis.Set(ctx, fmt.Sprintf(refreshTokenKey, user.ID), refreshToken, s.refreshTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwt.AccessExpiry().Seconds()),
		User: ProfileSummary{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

func (s *accountService) validateSignUp(req *SignUpRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&req.FullName, validation.Required),
	)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}

	if !req.Role.Valid() {
		return validationErrorf("unknown role %q", req.Role)
	}

	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return err
	}
	req.Phone = phone
	return nil
}

// normalizePhone validates an optional phone number and formats it to
// E.164. Numbers must carry their country prefix.
func normalizePhone(phone string) (string, error) {
	if phone == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(phone, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", validationErrorf("invalid phone number %q", phone)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
