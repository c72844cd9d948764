package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
)

// UserRepository is the SQLite implementation of domain.UserRepository.
type UserRepository struct {
	db     *sql.DB
	tracer trace.Tracer
	logger *slog.Logger
}

// NewUserRepository creates a new SQLite-backed user repository
func NewUserRepository(db *sql.DB, tracer trace.Tracer, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		tracer: tracer,
		logger: logger,
	}
}

// Create stores a new user, assigning its id and timestamps. A duplicate
// email reports ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash,
		now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return domain.ErrEmailTaken
		}
		span.RecordError(err)
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now

	span.SetAttributes(attribute.Int64("user.id", id))
	r.logger.InfoContext(ctx, "User created in repository",
		slog.Int64("user_id", id),
	)
	return nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.FindByID")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", id))

	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = ?`, id)
	return scanUser(row.Scan)
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.FindByEmail")
	defer span.End()

	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = ?`, email)
	return scanUser(row.Scan)
}

func scanUser(scan func(...any) error) (*domain.User, error) {
	var (
		u            domain.User
		created, upd string
	)
	if err := scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created, &upd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	var err error
	if u.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if u.UpdatedAt, err = time.Parse(time.RFC3339Nano, upd); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &u, nil
}
