// chickguard - monitor brooder comfort from thermal footage
//  Copyright (C) 2026, The ChickGuard Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package history keeps a record of comfort readings in PostgreSQL.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chickguard/chickguard/comfort"
)

const schema = `
CREATE TABLE IF NOT EXISTS readings (
	id SERIAL PRIMARY KEY,
	value REAL NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS readings_created_at ON readings (created_at DESC);
`

// Reading is a stored comfort reading.
type Reading struct {
	ID     int            `json:"id"`
	Value  float64        `json:"temperatura"`
	Status comfort.Status `json:"status"`
	Time   time.Time      `json:"timestamp"`
}

// Store saves readings and returns the most recent ones.
type Store interface {
	Insert(ctx context.Context, r Reading) error
	Recent(ctx context.Context, n int) ([]Reading, error)
}

// PostgresStore is a Store backed by a connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Open connects to the database at url and checks it is reachable.
func Open(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the readings table if it doesn't exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, r Reading) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO readings (value, status, created_at) VALUES ($1, $2, $3)",
		r.Value, string(r.Status), r.Time)
	if err != nil {
		return fmt.Errorf("failed to store reading: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, n int) ([]Reading, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, value, status, created_at FROM readings ORDER BY created_at DESC LIMIT $1", n)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	readings := []Reading{}
	for rows.Next() {
		var (
			r      Reading
			value  float32
			status string
		)
		if err := rows.Scan(&r.ID, &value, &status, &r.Time); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		r.Value = comfort.Round(float64(value), 1)
		r.Status = comfort.Status(status)
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
