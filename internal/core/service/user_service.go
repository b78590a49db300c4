package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/michi-labs/catapi/internal/core/domain"
	"github.com/michi-labs/catapi/internal/core/ports"
	"github.com/michi-labs/catapi/internal/pkg/metrics"
	"github.com/michi-labs/catapi/internal/pkg/reqctx"
)

// dummyPassword is hashed once and verified against when a login names an
// unknown user, so both failure paths cost one bcrypt comparison.
const dummyPassword = "catapi-timing-equaliser"

// A registration whose idempotency key is held by another in-flight request
// polls for that request's outcome before giving up with a conflict.
const (
	defaultReplayWait = 3 * time.Second
	defaultReplayPoll = 50 * time.Millisecond
)

// UserService implements account management and credential checks.
type UserService struct {
	repo        ports.UserRepository
	hasher      ports.PasswordHasher
	idempotency ports.IdempotencyStore // optional
	audit       ports.AuditPublisher   // optional
	log         zerolog.Logger

	replayWait time.Duration
	replayPoll time.Duration

	dummyOnce sync.Once
	dummyHash string
}

var _ ports.UserService = (*UserService)(nil)

// UserServiceOption customises optional collaborators.
type UserServiceOption func(*UserService)

// WithIdempotencyStore enables Idempotency-Key replay on registration.
func WithIdempotencyStore(store ports.IdempotencyStore) UserServiceOption {
	return func(s *UserService) { s.idempotency = store }
}

// WithAuditPublisher sends registration and login events to publisher.
func WithAuditPublisher(publisher ports.AuditPublisher) UserServiceOption {
	return func(s *UserService) { s.audit = publisher }
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger, opts ...UserServiceOption) *UserService {
	s := &UserService{
		repo:       repo,
		hasher:     hasher,
		log:        log,
		replayWait: defaultReplayWait,
		replayPoll: defaultReplayPoll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser hashes the password and stores the user. A repeated idempotency
// key returns the user created by the first request.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if in.Password == "" {
		return nil, domain.ErrPasswordMissing
	}

	existing, reserved, err := s.claim(ctx, in.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.release(ctx, in.IdempotencyKey, reserved)
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:           in.Name,
		Identification: in.Identification,
		Email:          in.Email,
		Age:            in.Age,
		Username:       in.Username,
		PasswordHash:   hash,
	})
	if err != nil {
		s.release(ctx, in.IdempotencyKey, reserved)
		if domain.KindOf(err) == domain.KindConflict {
			s.log.Info().Str("username", in.Username).Msg("registration rejected: duplicate user")
		} else {
			s.log.Error().Err(err).Str("username", in.Username).Msg("failed to create user")
		}
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, in.IdempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	metrics.UsersRegisteredTotal.Inc()
	s.publish(ctx, domain.EventUserRegistered, created.Username, created.ID)
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")

	return created, nil
}

// claim resolves an idempotency key before a registration runs. It returns
// the user of an earlier request with the same key, or reports whether this
// request now holds the key. While another request holds it, claim waits for
// that request's user (or for the key to be released) up to replayWait.
// Store errors are logged and the registration proceeds unreserved.
func (s *UserService) claim(ctx context.Context, key string) (*domain.User, bool, error) {
	if key == "" || s.idempotency == nil {
		return nil, false, nil
	}

	deadline := time.NewTimer(s.replayWait)
	defer deadline.Stop()

	for {
		if existing := s.replay(ctx, key); existing != nil {
			return existing, false, nil
		}

		reserved, err := s.idempotency.Reserve(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reserve failed, processing anyway")
			return nil, false, nil
		}
		if reserved {
			return nil, true, nil
		}

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-deadline.C:
			s.log.Info().Str("idempotency_key", key).Msg("idempotency key still in use")
			return nil, false, domain.NewConflictError("a registration with this idempotency key is already in progress", nil)
		case <-time.After(s.replayPoll):
		}
	}
}

// release frees a reservation after a failed registration so the client can retry.
func (s *UserService) release(ctx context.Context, key string, reserved bool) {
	if !reserved {
		return
	}
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

// replay returns the user previously recorded for key, or nil when the key is
// unknown, still reserved, or the store is unavailable.
func (s *UserService) replay(ctx context.Context, key string) *domain.User {
	userID, found, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, processing anyway")
		return nil
	}
	if !found {
		return nil
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Str("user_id", userID).Msg("idempotent user no longer available")
		return nil
	}

	s.log.Info().Str("idempotency_key", key).Str("user_id", userID).Msg("idempotent replay")
	return user
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateUser replaces the supplied fields. A supplied password is hashed
// before it is stored.
func (s *UserService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	update := domain.UserUpdate{
		Name:           in.Name,
		Identification: in.Identification,
		Email:          in.Email,
		Age:            in.Age,
		Username:       in.Username,
	}

	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.ErrPasswordMissing
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}

	user, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user updated")
	return user, nil
}

// DeleteUser removes the user and returns it. Deleting twice yields not-found.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user deleted")
	return user, nil
}

func (s *UserService) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// ValidateUser checks username and password. Unknown users and wrong
// passwords both yield domain.ErrInvalidCredentials.
func (s *UserService) ValidateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("validate user: %w", err)
	}

	if user == nil {
		s.hasher.Verify(password, s.dummy())
		s.loginFailed(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.loginFailed(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.publish(ctx, domain.EventLoginSucceeded, user.Username, user.ID)
	s.log.Debug().Str("user_id", user.ID).Msg("credentials verified")

	return user, nil
}

func (s *UserService) loginFailed(ctx context.Context, username string) {
	metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
	s.publish(ctx, domain.EventLoginFailed, username, "")
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare dummy hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *UserService) publish(ctx context.Context, kind domain.AuthEventKind, username, userID string) {
	if s.audit == nil {
		return
	}
	s.audit.Publish(domain.AuthEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		Username:   username,
		UserID:     userID,
		RequestID:  reqctx.RequestID(ctx),
		OccurredAt: time.Now().UTC(),
	})
}
