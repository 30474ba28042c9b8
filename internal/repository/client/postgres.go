package client

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"cartbridge/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	const q = `
SELECT id, name, email, COALESCE(phone, ''), created_at
FROM clients
WHERE email = $1
`
	var c domain.Client
	err := r.pool.QueryRow(ctx, q, strings.ToLower(email)).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("client repo: get email=%s error=%v", email, err)
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateClientInput) (*domain.Client, error) {
	const q = `
INSERT INTO clients (name, email, phone)
VALUES ($1, $2, NULLIF($3, ''))
RETURNING id, name, email, COALESCE(phone, ''), created_at
`
	var c domain.Client
	err := r.pool.QueryRow(ctx, q, in.Name, strings.ToLower(in.Email), in.Phone).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt,
	)
	if err != nil {
		r.logger.Printf("client repo: create email=%s error=%v", in.Email, err)
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) UpdatePhone(ctx context.Context, id int64, phone string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE clients SET phone = $1 WHERE id = $2`, phone, id)
	if err != nil {
		r.logger.Printf("client repo: update phone id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
