// internal/db/schema.go
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		display_name TEXT NOT NULL,
		agent_code TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		mobile TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin', 'agent')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx ON users (lower(email))`,

	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		customer_name TEXT NOT NULL,
		mobile_numbers TEXT[] NOT NULL DEFAULT '{}',
		emails TEXT[] NOT NULL DEFAULT '{}',
		credit_score INTEGER,
		address TEXT,
		pin_code TEXT,
		gender TEXT CHECK (gender IN ('male', 'female', 'other')),
		occupation TEXT CHECK (occupation IN ('salary', 'non-salary', 'business', 'other')),
		income DOUBLE PRECISION,
		dob DATE,
		aadhaar_number TEXT,
		pan_number TEXT,
		aadhaar_front_url TEXT,
		aadhaar_back_url TEXT,
		pan_file_url TEXT,
		selfie_url TEXT,
		income_proof_files TEXT[] NOT NULL DEFAULT '{}',
		assigned_agent_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS customers_assigned_agent_idx ON customers (assigned_agent_id)`,
	`CREATE INDEX IF NOT EXISTS customers_pin_code_idx ON customers (pin_code)`,
	`CREATE INDEX IF NOT EXISTS customers_created_at_idx ON customers (created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS call_histories (
		id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		agent_id BIGINT NOT NULL REFERENCES users(id),
		interested BOOLEAN,
		call_time TIMESTAMPTZ NOT NULL DEFAULT now(),
		disposition TEXT,
		next_call_at TIMESTAMPTZ,
		attended BOOLEAN,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS call_histories_customer_idx ON call_histories (customer_id)`,
	`CREATE INDEX IF NOT EXISTS call_histories_agent_idx ON call_histories (agent_id)`,
	`CREATE INDEX IF NOT EXISTS call_histories_next_call_idx ON call_histories (next_call_at) WHERE next_call_at IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		metadata JSONB,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		read_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_user_idx ON notifications (user_id, created_at DESC)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
