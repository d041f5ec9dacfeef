package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"typerace/internal/cache"
	"typerace/internal/model"
	"typerace/internal/race"
	"typerace/internal/repository"
)

// PlayerService handles join and progress-push operations
type PlayerService struct {
	roomRepo    repository.RoomRepo
	playerRepo  repository.PlayerRepo
	leaderboard cache.LeaderboardCache
	identity    cache.IdentityCache
	authSvc     *AuthService
	clock       clockwork.Clock
}

// NewPlayerService creates a new player service
func NewPlayerService(
	roomRepo repository.RoomRepo,
	playerRepo repository.PlayerRepo,
	leaderboard cache.LeaderboardCache,
	identity cache.IdentityCache,
	authSvc *AuthService,
	clock clockwork.Clock,
) *PlayerService {
	return &PlayerService{
		roomRepo:    roomRepo,
		playerRepo:  playerRepo,
		leaderboard: leaderboard,
		identity:    identity,
		authSvc:     authSvc,
		clock:       clock,
	}
}

// Join enrolls a player in a waiting room. The first joiner claims the host
// slot; the claim is an update-if-empty on the store, so two racing first
// joins produce exactly one host. A non-empty clientKey makes the join
// idempotent: retrying it returns the already-enrolled player.
func (s *PlayerService) Join(ctx context.Context, roomCode, name, clientKey string) (*model.PlayerJoinResponse, error) {
	room, err := s.roomRepo.GetByCode(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, race.ErrRoomNotFound
	}
	if !race.CanJoin(room.Status) {
		return nil, race.ErrRaceAlreadyStarted
	}

	player := &model.Player{
		ID:        "p_" + uuid.New().String()[:8],
		RoomCode:  roomCode,
		Name:      name,
		ClientKey: clientKey,
		JoinedAt:  s.clock.Now().UTC(),
	}

	if clientKey != "" {
		player, err = s.playerRepo.UpsertByClientKey(ctx, player)
	} else {
		err = s.playerRepo.Create(ctx, player)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save player: %w", err)
	}

	claimed, err := s.roomRepo.ClaimHost(ctx, roomCode, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim host: %w", err)
	}
	host := claimed
	if !host && room.HostID == player.ID {
		host = true // Replayed join from the player that already holds the slot
	}

	if err := s.leaderboard.UpdateWPM(ctx, roomCode, player.ID, player.WPM); err != nil {
		log.Warn().Err(err).Str("room", roomCode).Str("player", player.ID).Msg("failed to seed leaderboard")
	}
	if clientKey != "" {
		if err := s.identity.SetName(ctx, clientKey, name); err != nil {
			log.Warn().Err(err).Msg("failed to remember client name")
		}
	}

	token, err := s.authSvc.GeneratePlayerToken(roomCode, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info().Str("room", roomCode).Str("player", player.ID).Bool("host", host).Msg("player joined")
	return &model.PlayerJoinResponse{
		PlayerID: player.ID,
		Token:    token,
		Host:     host,
	}, nil
}

// PushProgress applies a last-write-wins update of one player's progress and
// wpm. Reaching 100 stamps finishedAt exactly once; pushes after the stamp
// are ignored. When the stamp completes the last unfinished player, the room
// moves to finished.
func (s *PlayerService) PushProgress(ctx context.Context, roomCode, playerID string, progress, wpm int) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	player, err := s.playerRepo.UpdateProgress(ctx, roomCode, playerID, progress, wpm)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if player == nil {
		existing, err := s.playerRepo.GetByID(ctx, playerID)
		if err != nil {
			return fmt.Errorf("failed to get player: %w", err)
		}
		if existing == nil || existing.RoomCode != roomCode {
			return race.ErrPlayerNotFound
		}
		return nil // Already finished; late pushes are ignored
	}

	if err := s.leaderboard.UpdateWPM(ctx, roomCode, playerID, wpm); err != nil {
		log.Warn().Err(err).Str("room", roomCode).Str("player", playerID).Msg("failed to update leaderboard")
	}

	if progress >= 100 {
		stamped, err := s.playerRepo.StampFinished(ctx, playerID, s.clock.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to stamp finish: %w", err)
		}
		if stamped {
			log.Info().Str("room", roomCode).Str("player", playerID).Int("wpm", wpm).Msg("player finished")
			s.maybeFinishRoom(ctx, roomCode)
		}
	}

	return nil
}

// Leaderboard returns the top entries of the room's wpm board with names
// filled in from the store.
func (s *PlayerService) Leaderboard(ctx context.Context, roomCode string, limit int) ([]cache.LeaderboardEntry, error) {
	entries, err := s.leaderboard.GetTop(ctx, roomCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	players, err := s.playerRepo.ListByRoom(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	for i := range entries {
		entries[i].Name = names[entries[i].PlayerID]
	}

	return entries, nil
}

// PlayerRank returns the player's 1-indexed position on the room's wpm
// board, or -1 when the player is not on it.
func (s *PlayerService) PlayerRank(ctx context.Context, roomCode, playerID string) (int64, error) {
	rank, err := s.leaderboard.GetRank(ctx, roomCode, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get rank: %w", err)
	}
	return rank, nil
}

// RememberedName returns the display name last used by this client key, or
// empty when unknown.
func (s *PlayerService) RememberedName(ctx context.Context, clientKey string) (string, error) {
	return s.identity.GetName(ctx, clientKey)
}

// maybeFinishRoom closes the room once every player has a finish stamp. The
// transition is advisory, so failures only log; the push that triggered it
// has already succeeded.
func (s *PlayerService) maybeFinishRoom(ctx context.Context, roomCode string) {
	players, err := s.playerRepo.ListByRoom(ctx, roomCode)
	if err != nil {
		log.Warn().Err(err).Str("room", roomCode).Msg("failed to check room finish")
		return
	}
	if len(players) == 0 {
		return
	}
	for _, p := range players {
		if p.FinishedAt == nil {
			return
		}
	}

	if err := s.roomRepo.SetStatus(ctx, roomCode, model.RoomFinished); err != nil {
		log.Warn().Err(err).Str("room", roomCode).Msg("failed to finish room")
		return
	}
	log.Info().Str("room", roomCode).Msg("room finished")
}
