package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/reliefbridge/relief-ui-api/internal/data/pgxutil"
	"github.com/reliefbridge/relief-ui-api/internal/domain/model"
	apperrors "github.com/reliefbridge/relief-ui-api/internal/errors"
	"github.com/reliefbridge/relief-ui-api/internal/ports"
)

const userColumns = `user_id, username, password_hash, role, email, zip_code, approved,
	address_line1, address_line2, city, state, created_at`

// UserRepo provides database operations for accounts.
type UserRepo struct {
	DB  *sql.DB
	now func() time.Time
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, now: time.Now}
}

var _ ports.UserRepository = (*UserRepo)(nil)

// FindByUsername retrieves an account by username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.Validation("username is required")
	}

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("no account for username %q", username)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Create inserts a new account, unapproved by default. Duplicate usernames
// surface as a Conflict AppError via pgerrcode mapping.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, apperrors.Validation("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (
				user_id, username, password_hash, role, email, zip_code, approved,
				address_line1, address_line2, city, state, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, FALSE, $7, $8, $9, $10, $11
			) RETURNING `+userColumns,
			uuid.NewString(),
			strings.TrimSpace(req.Username),
			req.PasswordHash,
			req.Role,
			strings.TrimSpace(req.Email),
			strings.TrimSpace(req.ZipCode),
			req.AddressLine1,
			req.AddressLine2,
			req.City,
			req.State,
			r.now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// UpdatePassword replaces the stored password hash for the user.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if userID == "" {
		return apperrors.Validation("user id is required")
	}
	if passwordHash == "" {
		return apperrors.Validation("password hash is required")
	}

	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			`UPDATE users SET password_hash = $1 WHERE user_id = $2`, passwordHash, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFoundf("no account with id %q", userID)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update password: %w", apperrors.MapDBError(err))
	}
	return nil
}
