package domain

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomCodeTaken = errors.New("room code already taken")

	ErrVoteSessionNotFound  = errors.New("vote session not found")
	ErrNoActiveVoteSession  = errors.New("no active vote session")
	ErrActiveSessionExists  = errors.New("another vote session is already active")
	ErrTeamNotFound         = errors.New("team not found")
	ErrAlreadyVoted         = errors.New("already voted in this session")

	ErrInvalidSigningAlg     = errors.New("invalid signing algorithm")
	ErrExpiredToken          = errors.New("expired token")
	ErrInvalidTokenSignature = errors.New("invalid token signature")
	ErrCorruptedToken        = errors.New("corrupted token")

	ErrUnexpectedDatabase        = errors.New("unexpected database error")
	ErrUnexpectedTokenGeneration = errors.New("unexpected token generation error")
	ErrUnexpectedTokenVerify     = errors.New("unexpected token verification error")
)
