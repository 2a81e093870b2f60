package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/employee"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/database"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/retry"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.CredentialRepository {
	return &employeeRepository{db: db}
}

// GetAll implements employee.CredentialRepository. Creation order is the
// stable row order reports iterate in.
func (r *employeeRepository) GetAll(ctx context.Context) ([]employee.Credential, error) {
	return retry.Value(func() ([]employee.Credential, error) {
		query := `
			SELECT username, password_hash, display_name, created_at
			FROM employees
			ORDER BY created_at, username
		`

		rows, err := r.db.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to query employees: %w", err)
		}
		defer rows.Close()

		var credentials []employee.Credential
		for rows.Next() {
			var cred employee.Credential
			if err := rows.Scan(&cred.Username, &cred.PasswordHash, &cred.DisplayName, &cred.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to scan employee row: %w", err)
			}
			credentials = append(credentials, cred)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read employee rows: %w", err)
		}
		return credentials, nil
	})
}

// GetByUsername implements employee.CredentialRepository.
func (r *employeeRepository) GetByUsername(ctx context.Context, username string) (employee.Credential, error) {
	return retry.Value(func() (employee.Credential, error) {
		query := `
			SELECT username, password_hash, display_name, created_at
			FROM employees
			WHERE username = $1
		`

		var cred employee.Credential
		err := r.db.QueryRow(ctx, query, username).Scan(
			&cred.Username, &cred.PasswordHash, &cred.DisplayName, &cred.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return employee.Credential{}, retry.Permanent(employee.ErrEmployeeNotFound)
			}
			return employee.Credential{}, fmt.Errorf("failed to get employee: %w", err)
		}
		return cred, nil
	})
}

// Create implements employee.CredentialRepository.
func (r *employeeRepository) Create(ctx context.Context, cred employee.Credential) error {
	return retry.Do(func() error {
		query := `
			INSERT INTO employees (username, password_hash, display_name)
			VALUES ($1, $2, $3)
		`

		if _, err := r.db.Exec(ctx, query, cred.Username, cred.PasswordHash, cred.DisplayName); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
				return retry.Permanent(employee.ErrUsernameExists)
			}
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return nil
	})
}

// Delete implements employee.CredentialRepository.
func (r *employeeRepository) Delete(ctx context.Context, username string) error {
	return retry.Do(func() error {
		tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE username = $1`, username)
		if err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return retry.Permanent(employee.ErrEmployeeNotFound)
		}
		return nil
	})
}

// UpdatePasswordHash implements employee.CredentialRepository.
func (r *employeeRepository) UpdatePasswordHash(ctx context.Context, username string, newHash string) error {
	return retry.Do(func() error {
		tag, err := r.db.Exec(ctx, `UPDATE employees SET password_hash = $1 WHERE username = $2`, newHash, username)
		if err != nil {
			return fmt.Errorf("failed to update employee password: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return retry.Permanent(employee.ErrEmployeeNotFound)
		}
		return nil
	})
}
