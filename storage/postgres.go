package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

// "23505" is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

func (r *PostgresRepo) CreateRoom(ctx context.Context, roomCode string) (domain.Room, error) {
	room := domain.Room{
		RoomCode: roomCode,
		Players:  []string{},
		Status:   domain.StatusLobby,
	}

	row := r.pool.QueryRow(ctx,
		"INSERT INTO rooms(room_code) VALUES($1) RETURNING id, created_at", roomCode)

	if err := row.Scan(&room.Id, &room.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.Room{}, domain.ErrRoomCodeTaken
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.Room{}, err
		}
		return domain.Room{}, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}

	return room, nil
}

func (r *PostgresRepo) GetRoomByCode(ctx context.Context, roomCode string) (domain.Room, error) {
	room := domain.Room{RoomCode: roomCode}
	var gameState []byte

	row := r.pool.QueryRow(ctx,
		"SELECT id, players, status, game_state, created_at FROM rooms WHERE room_code = $1", roomCode)

	err := row.Scan(&room.Id, &room.Players, &room.Status, &gameState, &room.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.Room{}, domain.ErrRoomNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.Room{}, err
		default:
			return domain.Room{}, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
		}
	}

	if len(gameState) > 0 {
		room.GameState = &domain.GameState{}
		if err := json.Unmarshal(gameState, room.GameState); err != nil {
			return domain.Room{}, fmt.Errorf("%w: decode game_state: %w", domain.ErrUnexpectedDatabase, err)
		}
	}

	return room, nil
}

func (r *PostgresRepo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, room_code, players, status, game_state, created_at FROM rooms ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	defer rows.Close()

	rooms := []domain.Room{}
	for rows.Next() {
		var room domain.Room
		var gameState []byte
		if err := rows.Scan(&room.Id, &room.RoomCode, &room.Players, &room.Status, &gameState, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
		}
		if len(gameState) > 0 {
			room.GameState = &domain.GameState{}
			if err := json.Unmarshal(gameState, room.GameState); err != nil {
				return nil, fmt.Errorf("%w: decode game_state: %w", domain.ErrUnexpectedDatabase, err)
			}
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}

	return rooms, nil
}

// SaveGame writes a room's mutable fields back. The board is persisted as
// part of game_state, but it is always derived from the move log before it
// gets here.
func (r *PostgresRepo) SaveGame(ctx context.Context, room domain.Room) error {
	var gameState []byte
	if room.GameState != nil {
		var err error
		gameState, err = json.Marshal(room.GameState)
		if err != nil {
			return fmt.Errorf("%w: encode game_state: %w", domain.ErrUnexpectedDatabase, err)
		}
	}

	tag, err := r.pool.Exec(ctx,
		"UPDATE rooms SET players = $2, status = $3, game_state = $4 WHERE room_code = $1",
		room.RoomCode, room.Players, room.Status, gameState)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}

	return nil
}

func (r *PostgresRepo) DeleteRoom(ctx context.Context, roomCode string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM rooms WHERE room_code = $1", roomCode)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}
