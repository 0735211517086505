package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-sqlite3"
)

const selectMatch = `
	SELECT id, created_by, created_at, updated_at, team_a_json, team_b_json, rounds_json,
	       total_a, total_b, finished, winner_team, lisa_json, finished_at, version
	FROM matches`

// NewStore creates a Store backed by the matches table.
func NewStore(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) Create(ctx context.Context, m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := encodeMatch(m)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches (id, created_by, created_at, updated_at, team_a_json, team_b_json, rounds_json,
		                     total_a, total_b, finished, winner_team, lisa_json, finished_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.CreatedBy, m.CreatedAt.UnixMilli(), m.UpdatedAt.UnixMilli(), row.teamA, row.teamB, row.rounds,
		m.TotalA, m.TotalB, m.Finished, row.winner, row.lisa, row.finishedAt, m.Version,
	)
	if err != nil {
		return storeError("failed to create match", err)
	}
	return nil
}

func (s *store) Get(ctx context.Context, id string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.scanMatch(s.db.QueryRowContext(ctx, selectMatch+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, storeError("failed to get match", err)
	}
	return m, nil
}

// List returns matches newest first, optionally filtered by finished state and player.
func (s *store) List(ctx context.Context, opts ListOptions) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectMatch + " WHERE 1 = 1"
	var args []any
	if opts.Finished != nil {
		query += " AND finished = ?"
		args = append(args, *opts.Finished)
	}
	if opts.PlayerID != "" {
		query += ` AND (EXISTS (SELECT 1 FROM json_each(matches.team_a_json) WHERE value = ?)
		             OR EXISTS (SELECT 1 FROM json_each(matches.team_b_json) WHERE value = ?))`
		args = append(args, opts.PlayerID, opts.PlayerID)
	}
	query += " ORDER BY created_at DESC, id"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	return s.query(ctx, false, query, args...)
}

// ListUnfinished fails on an unreadable row: skipping it would free its players for a
// second active match.
func (s *store) ListUnfinished(ctx context.Context) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(ctx, true, selectMatch+" WHERE finished = 0")
}

func (s *store) ListFinished(ctx context.Context) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(ctx, false, selectMatch+" WHERE finished = 1 ORDER BY finished_at")
}

// query scans the matching rows. Rows that fail to scan are logged and skipped unless strict
// is set, in which case the first one aborts the query.
func (s *store) query(ctx context.Context, strict bool, query string, args ...any) ([]*Match, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("failed to query matches", err)
	}
	defer rows.Close()

	matches := []*Match{}
	for rows.Next() {
		m, err := s.scanMatch(rows)
		if err != nil {
			if strict {
				return nil, fmt.Errorf("failed to scan match row: %w", err)
			}
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Update reads the match inside a transaction, applies fn and writes it back only if the
// stored version is unchanged.
func (s *store) Update(ctx context.Context, id string, fn func(m *Match) error) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	m, err := s.scanMatch(tx.QueryRowContext(ctx, selectMatch+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, storeError("failed to load match", err)
	}

	version := m.Version
	if err := fn(m); err != nil {
		return nil, err
	}
	m.Version = version + 1

	row, err := encodeMatch(m)
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE matches SET
			updated_at = ?, rounds_json = ?, total_a = ?, total_b = ?, finished = ?,
			winner_team = ?, lisa_json = ?, finished_at = ?, version = ?
		WHERE id = ? AND version = ?`,
		m.UpdatedAt.UnixMilli(), row.rounds, m.TotalA, m.TotalB, m.Finished,
		row.winner, row.lisa, row.finishedAt, m.Version,
		id, version,
	)
	if err != nil {
		return nil, storeError("failed to update match", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, storeError("failed to update match", err)
	}
	if n == 0 {
		return nil, ErrConflict
	}
	if err := tx.Commit(); err != nil {
		return nil, storeError("failed to commit match update", err)
	}
	return m, nil
}

func (s *store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return storeError("failed to delete match", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError("failed to delete match", err)
	}
	if n == 0 {
		return ErrMatchNotFound
	}
	return nil
}

type encodedMatch struct {
	teamA, teamB, rounds, lisa string
	winner                     sql.NullString
	finishedAt                 sql.NullInt64
}

// encodeMatch renders the JSON columns as text so json_each can read them.
func encodeMatch(m *Match) (encodedMatch, error) {
	var e encodedMatch
	rounds := m.Rounds
	if rounds == nil {
		rounds = []Round{}
	}
	lisa := m.Lisa
	if lisa == nil {
		lisa = []string{}
	}
	for _, col := range []struct {
		dst *string
		v   any
	}{{&e.teamA, m.TeamA}, {&e.teamB, m.TeamB}, {&e.rounds, rounds}, {&e.lisa, lisa}} {
		b, err := json.Marshal(col.v)
		if err != nil {
			return e, fmt.Errorf("failed to marshal match %s: %w", m.ID, err)
		}
		*col.dst = string(b)
	}
	if m.WinnerTeam != "" {
		e.winner = sql.NullString{String: string(m.WinnerTeam), Valid: true}
	}
	if m.FinishedAt != nil {
		e.finishedAt = sql.NullInt64{Int64: m.FinishedAt.UnixMilli(), Valid: true}
	}
	return e, nil
}

// scanMatch is a helper function to scan a single match row.
func (s *store) scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var createdAt, updatedAt int64
	var teamAJSON, teamBJSON, roundsJSON, lisaJSON string
	var winner sql.NullString
	var finishedAt sql.NullInt64

	err := scanner.Scan(
		&m.ID, &m.CreatedBy, &createdAt, &updatedAt, &teamAJSON, &teamBJSON, &roundsJSON,
		&m.TotalA, &m.TotalB, &m.Finished, &winner, &lisaJSON, &finishedAt, &m.Version,
	)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = time.UnixMilli(createdAt).UTC()
	m.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	m.WinnerTeam = Team(winner.String)
	if finishedAt.Valid {
		t := time.UnixMilli(finishedAt.Int64).UTC()
		m.FinishedAt = &t
	}

	if err := json.Unmarshal([]byte(teamAJSON), &m.TeamA); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team_a_json for match %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(teamBJSON), &m.TeamB); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team_b_json for match %s: %w", m.ID, err)
	}
	m.Rounds = []Round{}
	if roundsJSON != "" {
		if err := json.Unmarshal([]byte(roundsJSON), &m.Rounds); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rounds_json for match %s: %w", m.ID, err)
		}
	}
	m.Lisa = []string{}
	if lisaJSON != "" {
		if err := json.Unmarshal([]byte(lisaJSON), &m.Lisa); err != nil {
			log.Error("Failed to unmarshal lisa_json", "error", err, "matchID", m.ID)
		}
	}
	return &m, nil
}

// storeError wraps err, marking SQLite lock contention as transient.
func storeError(msg string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return transientError(err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
