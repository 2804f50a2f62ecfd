package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"berbook/internal/config"
	"berbook/internal/models"

	postgres "berbook/internal/repository/db"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db  *sqlx.DB
	cfg *config.PostgresConfig
}

func NewRepository(db *sqlx.DB, cfg *config.PostgresConfig) (*Repository, error) {
	var err error

	repo := &Repository{
		db:  db,
		cfg: cfg,
	}

	if repo.cfg == nil {
		repo.cfg, err = config.NewPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not load postgres config: %w", err)
		}
	}

	if repo.db == nil {
		repo.db, err = postgres.NewPostgresDB(repo.cfg)
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not open postgres db: %w", err)
		}
	}

	if repo.cfg.AutoMigrateUp == "true" {
		err = repo.MigrateUp()
		if err != nil {
			return nil, err
		}
	}

	return repo, nil
}

func (repo *Repository) MigrateUp() error {
	err := postgres.MigrateUp(repo.db.DB, repo.cfg.MigrationsURL)
	if err != nil {
		return fmt.Errorf("repository.Repository.MigrateUp: %w", err)
	}
	return nil
}

func (repo *Repository) MigrateDown() error {
	err := postgres.MigrateDown(repo.db.DB, repo.cfg.MigrationsURL)
	if err != nil {
		return fmt.Errorf("repository.Repository.MigrateDown: %w", err)
	}
	return nil
}

func (repo *Repository) Close() error {
	var migErr error
	if repo.cfg.AutoMigrateDown == "true" {
		migErr = repo.MigrateDown()
	}

	err := repo.db.Close()
	return errors.Join(migErr, err)
}

//// Users and parties

func (repo *Repository) UserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := repo.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		return user, fmt.Errorf("repository.Repository.UserByID: %w", err)
	}
	return user, nil
}

func (repo *Repository) ClientByID(ctx context.Context, id string) (models.Client, error) {
	var client models.Client
	err := repo.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", id)
	if err != nil {
		return client, fmt.Errorf("repository.Repository.ClientByID: %w", err)
	}
	return client, nil
}

func (repo *Repository) AccessorByID(ctx context.Context, id string) (models.Accessor, error) {
	var accessor models.Accessor
	err := repo.db.GetContext(ctx, &accessor, "SELECT * FROM accessors WHERE id = $1", id)
	if err != nil {
		return accessor, fmt.Errorf("repository.Repository.AccessorByID: %w", err)
	}
	return accessor, nil
}

// EnsureClient finds or creates the client identified by an email address,
// creating the backing user on first contact. Used by quote promotion, so
// repeated calls with the same email must land on the same client row.
func (repo *Repository) EnsureClient(ctx context.Context, name, email, phone string) (models.Client, error) {
	var client models.Client

	firstName, lastName := splitName(name)

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return client, fmt.Errorf("repository.Repository.EnsureClient: failed to start transaction: %w", err)
	}

	var userId string
	err = tx.GetContext(ctx, &userId, `
	INSERT INTO users (email, first_name, last_name, phone, kind)
	VALUES ($1, $2, $3, $4, 'client')
	ON CONFLICT (email) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
	RETURNING id
	`, email, firstName, lastName, phone)
	if err != nil {
		return client, fmt.Errorf("repository.Repository.EnsureClient: %w", wrapRollbackErr(tx, err))
	}

	err = tx.GetContext(ctx, &client, `
	INSERT INTO clients (user_id, email, phone, first_name, last_name)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email, phone = EXCLUDED.phone
	RETURNING *
	`, userId, email, phone, firstName, lastName)
	if err != nil {
		return client, fmt.Errorf("repository.Repository.EnsureClient: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return client, fmt.Errorf("repository.Repository.EnsureClient: failed to commit transaction: %w", err)
	}

	return client, nil
}

// ListAdmins implements the admin directory the acceptance broadcast uses.
func (repo *Repository) ListAdmins(ctx context.Context) ([]models.PartyRef, error) {
	var ids []string
	err := repo.db.SelectContext(ctx, &ids, "SELECT id FROM users WHERE kind = 'admin'")
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.ListAdmins: %w", err)
	}

	admins := make([]models.PartyRef, 0, len(ids))
	for _, id := range ids {
		admins = append(admins, models.AdminRef(id))
	}
	return admins, nil
}

func (repo *Repository) CountAccessors(ctx context.Context) (int, error) {
	var n int
	err := repo.db.GetContext(ctx, &n, "SELECT COUNT(1) FROM accessors")
	if err != nil {
		return 0, fmt.Errorf("repository.Repository.CountAccessors: %w", err)
	}
	return n, nil
}

func (repo *Repository) CountClients(ctx context.Context) (int, error) {
	var n int
	err := repo.db.GetContext(ctx, &n, "SELECT COUNT(1) FROM clients")
	if err != nil {
		return 0, fmt.Errorf("repository.Repository.CountClients: %w", err)
	}
	return n, nil
}

func (repo *Repository) CountPendingJobs(ctx context.Context) (int, error) {
	var n int
	err := repo.db.GetContext(ctx, &n, "SELECT COUNT(1) FROM jobs WHERE status = 'pending'")
	if err != nil {
		return 0, fmt.Errorf("repository.Repository.CountPendingJobs: %w", err)
	}
	return n, nil
}

//// Service

func wrapRollbackErr(tx *sqlx.Tx, err error) error {
	rollerr := tx.Rollback()
	if rollerr == nil {
		return err
	}
	return fmt.Errorf("failed to rollback transaction after previous error: %w, %w", rollerr, err)
}

func splitName(name string) (first, last string) {
	first, last, found := strings.Cut(strings.TrimSpace(name), " ")
	if !found {
		return first, ""
	}
	return first, strings.TrimSpace(last)
}
