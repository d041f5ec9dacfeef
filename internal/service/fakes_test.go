package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"typerace/internal/cache"
	"typerace/internal/model"
)

// In-memory stand-ins for the Mongo repos and Redis caches. They reproduce
// the store semantics the services rely on: update-if-empty host claims,
// filtered start transitions, one-time finish stamps, wpm-descending listing.

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*model.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[string]*model.Room)}
}

func (r *fakeRoomRepo) Create(_ context.Context, room *model.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *room
	r.rooms[room.Code] = &cp
	return nil
}

func (r *fakeRoomRepo) GetByCode(_ context.Context, code string) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (r *fakeRoomRepo) ClaimHost(_ context.Context, code, playerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	if !ok || room.HostID != "" {
		return false, nil
	}
	room.HostID = playerID
	return true, nil
}

func (r *fakeRoomRepo) Start(_ context.Context, code string, at time.Time) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	if !ok || (room.Status != model.RoomWaiting && room.Status != model.RoomStarting) {
		return nil, nil
	}
	room.Status = model.RoomInProgress
	room.StartTime = &at
	cp := *room
	return &cp, nil
}

func (r *fakeRoomRepo) SetStatus(_ context.Context, code string, status model.RoomStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[code]; ok {
		room.Status = status
	}
	return nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[string]*model.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[string]*model.Player)}
}

func (r *fakePlayerRepo) Create(_ context.Context, player *model.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *player
	r.players[player.ID] = &cp
	return nil
}

func (r *fakePlayerRepo) UpsertByClientKey(_ context.Context, player *model.Player) (*model.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.RoomCode == player.RoomCode && p.ClientKey == player.ClientKey {
			cp := *p
			return &cp, nil
		}
	}
	cp := *player
	r.players[player.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id string) (*model.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlayerRepo) UpdateProgress(_ context.Context, roomCode, id string, progress, wpm int) (*model.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok || p.RoomCode != roomCode || p.FinishedAt != nil {
		return nil, nil
	}
	p.Progress = progress
	p.WPM = wpm
	cp := *p
	return &cp, nil
}

func (r *fakePlayerRepo) StampFinished(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok || p.FinishedAt != nil {
		return false, nil
	}
	p.FinishedAt = &at
	return true, nil
}

func (r *fakePlayerRepo) ListByRoom(_ context.Context, roomCode string) ([]*model.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Player
	for _, p := range r.players {
		if p.RoomCode == roomCode {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WPM != out[j].WPM {
			return out[i].WPM > out[j].WPM
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

type fakeCodeIndex struct {
	mu        sync.Mutex
	taken     map[string]bool
	rejectAll bool
}

func newFakeCodeIndex() *fakeCodeIndex {
	return &fakeCodeIndex{taken: make(map[string]bool)}
}

func (c *fakeCodeIndex) Reserve(_ context.Context, code string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rejectAll || c.taken[code] {
		return false, nil
	}
	c.taken[code] = true
	return true, nil
}

func (c *fakeCodeIndex) Exists(_ context.Context, code string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.taken[code], nil
}

func (c *fakeCodeIndex) Release(_ context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.taken, code)
	return nil
}

type fakeLeaderboard struct {
	mu   sync.Mutex
	wpms map[string]map[string]int // roomCode -> playerID -> wpm
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{wpms: make(map[string]map[string]int)}
}

func (l *fakeLeaderboard) UpdateWPM(_ context.Context, roomCode, playerID string, wpm int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.wpms[roomCode] == nil {
		l.wpms[roomCode] = make(map[string]int)
	}
	l.wpms[roomCode][playerID] = wpm
	return nil
}

func (l *fakeLeaderboard) GetTop(_ context.Context, roomCode string, limit int) ([]cache.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []cache.LeaderboardEntry
	for id, wpm := range l.wpms[roomCode] {
		entries = append(entries, cache.LeaderboardEntry{PlayerID: id, WPM: wpm})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].WPM > entries[j].WPM })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (l *fakeLeaderboard) GetRank(_ context.Context, roomCode, playerID string) (int64, error) {
	entries, _ := l.GetTop(context.Background(), roomCode, 1<<30)
	for _, e := range entries {
		if e.PlayerID == playerID {
			return int64(e.Rank), nil
		}
	}
	return -1, nil
}

type fakeIdentity struct {
	mu    sync.Mutex
	names map[string]string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{names: make(map[string]string)}
}

func (c *fakeIdentity) SetName(_ context.Context, clientKey, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[clientKey] = name
	return nil
}

func (c *fakeIdentity) GetName(_ context.Context, clientKey string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.names[clientKey], nil
}
