package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
)

// UserRepository is an in-memory implementation of domain.UserRepository
type UserRepository struct {
	mu      sync.RWMutex
	users   map[int64]*domain.User
	byEmail map[string]int64
	nextID  int64
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository(tracer trace.Tracer, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		users:   make(map[int64]*domain.User),
		byEmail: make(map[string]int64),
		tracer:  tracer,
		logger:  logger,
	}
}

// Create stores a new user, assigning its id and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return domain.ErrEmailTaken
	}

	r.nextID++
	now := time.Now().UTC()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	r.users[user.ID] = &clone
	r.byEmail[user.Email] = user.ID

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	r.logger.InfoContext(ctx, "User created in repository",
		slog.Int64("user_id", user.ID),
	)
	return nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "UserRepository.FindByID")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "UserRepository.FindByEmail")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[email]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.users[id]
	return &clone, nil
}
