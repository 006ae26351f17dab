package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"github.com/google/uuid"
)

// PostgresUsersRepository users 表实现
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

// 确保实现了接口
var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `id, email, name, image, role, status, agreement, timestamp_ms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var agreement []byte
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.ImageURL, &u.Role, &u.Status, &agreement, &u.Timestamp); err != nil {
		return nil, err
	}
	if len(agreement) > 0 {
		var snap domain.AgreementSnapshot
		if err := json.Unmarshal(agreement, &snap); err != nil {
			return nil, fmt.Errorf("decode agreement snapshot for %s: %w", u.Email, err)
		}
		u.Agreement = &snap
	}
	return &u, nil
}

func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return u, nil
}

func (r *PostgresUsersRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return u, nil
}

func (r *PostgresUsersRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY timestamp_ms, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresUsersRepository) CountUsers(ctx context.Context, role string) (int, error) {
	var n int
	var err error
	if role == "" {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	}
	return n, err
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, u *domain.User) (string, bool, error) {
	var agreement []byte
	if u.Agreement != nil {
		b, err := json.Marshal(u.Agreement)
		if err != nil {
			return "", false, err
		}
		agreement = b
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, image, role, status, agreement, timestamp_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, u.Email, u.Name, u.ImageURL, u.Role, u.Status, agreement, u.Timestamp,
	)
	if err == nil {
		return id, true, nil
	}
	if !isUniqueViolation(err) {
		return "", false, err
	}

	// Lost a registration race: report the row that won.
	var existing string
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, u.Email).Scan(&existing); err != nil {
		return "", false, err
	}
	return existing, false, nil
}

func (r *PostgresUsersRepository) UpdateUser(ctx context.Context, userID string, patch domain.UserPatch) error {
	return r.update(ctx, "id", userID, patch)
}

func (r *PostgresUsersRepository) UpdateUserByEmail(ctx context.Context, email string, patch domain.UserPatch) error {
	return r.update(ctx, "email", email, patch)
}

func (r *PostgresUsersRepository) update(ctx context.Context, keyColumn, key string, patch domain.UserPatch) error {
	sets, args, err := userPatchSQL(patch)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		// nothing to write; still report a missing row
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE `+keyColumn+` = $1`, key).Scan(&one)
		return notFoundOr(err)
	}
	args = append(args, key)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE %s = $%d`, strings.Join(sets, ", "), keyColumn, len(args))
	return execExpectOne(ctx, r.db, query, args...)
}

func userPatchSQL(patch domain.UserPatch) ([]string, []any, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.ImageURL != nil {
		add("image", *patch.ImageURL)
	}
	if patch.Role != nil {
		add("role", *patch.Role)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Agreement != nil {
		b, err := json.Marshal(patch.Agreement)
		if err != nil {
			return nil, nil, err
		}
		add("agreement", b)
	}
	return sets, args, nil
}
