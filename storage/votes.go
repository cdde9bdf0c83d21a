package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

const voteSessionColumns = "id, title, description, teams, is_active, start_time, end_time, created_at, updated_at"

func scanVoteSession(row pgx.Row) (domain.VoteSession, error) {
	var s domain.VoteSession
	var teams []byte
	err := row.Scan(&s.Id, &s.Title, &s.Description, &teams, &s.IsActive, &s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.VoteSession{}, err
	}
	if err := json.Unmarshal(teams, &s.Teams); err != nil {
		return domain.VoteSession{}, fmt.Errorf("%w: decode teams: %w", domain.ErrUnexpectedDatabase, err)
	}
	return s, nil
}

func (r *PostgresRepo) ListVoteSessions(ctx context.Context) ([]domain.VoteSession, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+voteSessionColumns+" FROM vote_sessions ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	defer rows.Close()

	sessions := []domain.VoteSession{}
	for rows.Next() {
		s, err := scanVoteSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	return sessions, nil
}

func (r *PostgresRepo) GetActiveVoteSession(ctx context.Context) (domain.VoteSession, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+voteSessionColumns+" FROM vote_sessions WHERE is_active LIMIT 1")
	s, err := scanVoteSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VoteSession{}, domain.ErrNoActiveVoteSession
		}
		return domain.VoteSession{}, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	return s, nil
}

func (r *PostgresRepo) CreateVoteSession(ctx context.Context, title, description string, teams []domain.Team) (domain.VoteSession, error) {
	encoded, err := json.Marshal(teams)
	if err != nil {
		return domain.VoteSession{}, fmt.Errorf("%w: encode teams: %w", domain.ErrUnexpectedDatabase, err)
	}

	row := r.pool.QueryRow(ctx,
		"INSERT INTO vote_sessions(title, description, teams) VALUES($1, $2, $3) RETURNING "+voteSessionColumns,
		title, description, encoded)

	s, err := scanVoteSession(row)
	if err != nil {
		return domain.VoteSession{}, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	return s, nil
}

// StartVoteSession activates a session, enforcing that no other session is
// active at the same time.
func (r *PostgresRepo) StartVoteSession(ctx context.Context, id string) (domain.VoteSession, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.VoteSession{}, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	defer tx.Rollback(ctx)

	var other int
	err = tx.QueryRow(ctx,
		"SELECT count(*) FROM vote_sessions WHERE is_active AND id <> $1", id).Scan(&other)
	if err != nil {
		return domain.VoteSession{}, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	if other > 0 {
		return domain.VoteSession{}, domain.ErrActiveSessionExists
	}

	row := tx.QueryRow(ctx,
		"UPDATE vote_sessions SET is_active = true, start_time = now(), updated_at = now() WHERE id = $1 RETURNING "+voteSessionColumns,
		id)
	s, err := scanVoteSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VoteSession{}, domain.ErrVoteSessionNotFound
		}
		return domain.VoteSession{}, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.VoteSession{}, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	return s, nil
}

func (r *PostgresRepo) EndVoteSession(ctx context.Context, id string) (domain.VoteSession, error) {
	row := r.pool.QueryRow(ctx,
		"UPDATE vote_sessions SET is_active = false, end_time = now(), updated_at = now() WHERE id = $1 RETURNING "+voteSessionColumns,
		id)
	s, err := scanVoteSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VoteSession{}, domain.ErrVoteSessionNotFound
		}
		return domain.VoteSession{}, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	return s, nil
}

// CastVote records one vote per IP per session and bumps the team tally. The
// session row is locked for the duration so concurrent votes cannot lose an
// increment on the embedded teams document.
func (r *PostgresRepo) CastVote(ctx context.Context, sessionId, teamId, voterIp string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	defer tx.Rollback(ctx)

	var teamsRaw []byte
	var active bool
	err = tx.QueryRow(ctx,
		"SELECT teams, is_active FROM vote_sessions WHERE id = $1 FOR UPDATE", sessionId).Scan(&teamsRaw, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrVoteSessionNotFound
		}
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	if !active {
		return domain.ErrNoActiveVoteSession
	}

	var teams []domain.Team
	if err := json.Unmarshal(teamsRaw, &teams); err != nil {
		return fmt.Errorf("%w: decode teams: %w", domain.ErrUnexpectedDatabase, err)
	}

	teamIdx := -1
	for i := range teams {
		if teams[i].Id == teamId {
			teamIdx = i
			break
		}
	}
	if teamIdx < 0 {
		return domain.ErrTeamNotFound
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO votes(session_id, team_id, voter_ip) VALUES($1, $2, $3)",
		sessionId, teamId, voterIp)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}

	teams[teamIdx].VoteCount++
	encoded, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("%w: encode teams: %w", domain.ErrUnexpectedDatabase, err)
	}
	_, err = tx.Exec(ctx,
		"UPDATE vote_sessions SET teams = $2, updated_at = now() WHERE id = $1", sessionId, encoded)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	return nil
}
