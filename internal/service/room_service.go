package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"typerace/internal/cache"
	"typerace/internal/model"
	"typerace/internal/quote"
	"typerace/internal/race"
	"typerace/internal/repository"
)

// RoomService handles room lifecycle operations
type RoomService struct {
	roomRepo   repository.RoomRepo
	playerRepo repository.PlayerRepo
	codes      cache.CodeIndex
	quotes     quote.Provider
	clock      clockwork.Clock
}

// NewRoomService creates a new room service
func NewRoomService(
	roomRepo repository.RoomRepo,
	playerRepo repository.PlayerRepo,
	codes cache.CodeIndex,
	quotes quote.Provider,
	clock clockwork.Clock,
) *RoomService {
	return &RoomService{
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		codes:      codes,
		quotes:     quotes,
		clock:      clock,
	}
}

const codeAttempts = 10

// CreateRoom allocates a waiting room with a fresh unique code and a
// reference text, the caller's override when non-empty or a provided quote
// otherwise. Collisions are retried a bounded number of times before
// race.ErrCodeExhausted is surfaced.
func (s *RoomService) CreateRoom(ctx context.Context, text string) (*model.Room, error) {
	for attempts := 0; attempts < codeAttempts; attempts++ {
		code, err := generateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}

		reserved, err := s.codes.Reserve(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve room code: %w", err)
		}
		if !reserved {
			continue
		}

		roomText := text
		if roomText == "" {
			roomText = s.quotes.Text(ctx)
		}

		room := &model.Room{
			Code:      code,
			Status:    model.RoomWaiting,
			Text:      roomText,
			CreatedAt: s.clock.Now().UTC(),
		}

		if err := s.roomRepo.Create(ctx, room); err != nil {
			// Give the code back so the slot is not burned by a store error.
			if relErr := s.codes.Release(ctx, code); relErr != nil {
				log.Warn().Err(relErr).Str("room", code).Msg("failed to release room code")
			}
			return nil, fmt.Errorf("failed to create room: %w", err)
		}

		log.Info().Str("room", code).Msg("room created")
		return room, nil
	}

	return nil, race.ErrCodeExhausted
}

// GetRoom retrieves a room by code
func (s *RoomService) GetRoom(ctx context.Context, code string) (*model.Room, error) {
	return s.roomRepo.GetByCode(ctx, code)
}

// Start transitions the room to in-progress and stamps the start time. Only
// the host may start; a replay while already running is a no-op that reports
// the original start time.
func (s *RoomService) Start(ctx context.Context, code, playerID string) (time.Time, error) {
	room, err := s.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return time.Time{}, race.ErrRoomNotFound
	}
	// Replay of an already-started race reports success with the original
	// stamp regardless of who asks; clients retry start defensively.
	if race.Started(room.Status) && room.StartTime != nil {
		return *room.StartTime, nil
	}
	if room.HostID != "" && room.HostID != playerID {
		return time.Time{}, race.ErrNotAuthorized
	}

	updated, err := s.roomRepo.Start(ctx, code, s.clock.Now().UTC())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to start race: %w", err)
	}
	if updated == nil {
		// Lost the transition race to a concurrent start; the stored stamp wins.
		room, err = s.roomRepo.GetByCode(ctx, code)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to get room: %w", err)
		}
		if room == nil || room.StartTime == nil {
			return time.Time{}, race.ErrRoomNotFound
		}
		return *room.StartTime, nil
	}

	log.Info().Str("room", code).Str("player", playerID).Time("startTime", *updated.StartTime).Msg("race started")
	return *updated.StartTime, nil
}

// Snapshot returns the full room state with players ranked by descending wpm.
func (s *RoomService) Snapshot(ctx context.Context, code string) (*model.RoomSnapshot, error) {
	room, err := s.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, race.ErrRoomNotFound
	}

	players, err := s.playerRepo.ListByRoom(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	return &model.RoomSnapshot{Room: *room, Players: players}, nil
}

// generateRoomCode creates a 6-char alphanumeric code
func generateRoomCode() (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	b := make([]byte, codeLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	code := make([]byte, codeLen)
	for i := range code {
		code[i] = chars[int(b[i])%len(chars)]
	}
	return string(code), nil
}
