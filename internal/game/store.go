package game

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence layer: team credentials and finished-run
// results. Live sessions never touch it; only registration, login, and
// terminal outcomes do.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (st *Store) EnsureSchema(ctx context.Context) error {
	_, err := st.db.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS game;

		CREATE TABLE IF NOT EXISTS game.teams (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			access_code TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS game.results (
			id           BIGSERIAL PRIMARY KEY,
			team_name    TEXT NOT NULL UNIQUE REFERENCES game.teams(name),
			industry_id  TEXT NOT NULL,
			score        INT NOT NULL,
			outcome      TEXT NOT NULL,
			valuation    DOUBLE PRECISION NOT NULL,
			cash         DOUBLE PRECISION NOT NULL,
			years_played INT NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

// CreateTeams registers n numbered teams with fresh access codes and
// returns the credential sheet for distribution. Existing names are
// skipped so repeated invocations only fill gaps.
func (st *Store) CreateTeams(ctx context.Context, n int) ([]TeamCredential, error) {
	if n <= 0 || n > 500 {
		return nil, fmt.Errorf("team count must be between 1 and 500")
	}
	tx, err := st.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var creds []TeamCredential
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("team%02d", i)
		code, err := generateAccessCode()
		if err != nil {
			return nil, err
		}
		tag, err := tx.Exec(ctx, `
			INSERT INTO game.teams (name, access_code)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, name, code)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() > 0 {
			creds = append(creds, TeamCredential{Team: name, Code: code})
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return creds, nil
}

// Authenticate checks a team's access code. Lookup misses and code
// mismatches both report ErrUnauthorized so probes learn nothing.
func (st *Store) Authenticate(ctx context.Context, team, code string) error {
	var stored string
	err := st.db.QueryRow(ctx, `
		SELECT access_code FROM game.teams WHERE name = $1
	`, team).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUnauthorized
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrUnauthorized
	}
	return nil
}

// HasResult reports whether a team already banked a finished run.
func (st *Store) HasResult(ctx context.Context, team string) (bool, error) {
	var exists bool
	err := st.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM game.results WHERE team_name = $1)
	`, team).Scan(&exists)
	return exists, err
}

// SaveResult records a terminated run. The unique constraint on
// team_name backs the one-run rule at the storage layer too.
func (st *Store) SaveResult(ctx context.Context, rec ResultRecord) error {
	_, err := st.db.Exec(ctx, `
		INSERT INTO game.results (team_name, industry_id, score, outcome, valuation, cash, years_played)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.Team, rec.Industry, rec.Score, rec.Outcome, rec.Valuation, rec.Cash, rec.Years)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyPlayed
	}
	return err
}

// Leaderboard returns all banked results ranked by score, valuation
// breaking ties.
func (st *Store) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	rows, err := st.db.Query(ctx, `
		SELECT team_name, industry_id, score, outcome, valuation
		FROM game.results
		ORDER BY score DESC, valuation DESC, team_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	rank := 0
	for rows.Next() {
		rank++
		row := LeaderboardRow{Rank: rank}
		if err := rows.Scan(&row.Team, &row.Industry, &row.Score, &row.Outcome, &row.Valuation); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListResults returns every banked run in completion order, for the
// operator tooling.
func (st *Store) ListResults(ctx context.Context) ([]ResultRecord, error) {
	rows, err := st.db.Query(ctx, `
		SELECT team_name, industry_id, score, outcome, valuation, cash, years_played, completed_at
		FROM game.results
		ORDER BY completed_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		if err := rows.Scan(&rec.Team, &rec.Industry, &rec.Score, &rec.Outcome,
			&rec.Valuation, &rec.Cash, &rec.Years, &rec.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func generateAccessCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
