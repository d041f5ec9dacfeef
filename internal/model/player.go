package model

import "time"

// Player represents a participant in a room. Progress and WPM are overwritten
// last-write-wins by the owning client; FinishedAt is stamped once when
// progress reaches 100 and never changes afterwards.
type Player struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	RoomCode   string     `json:"roomCode" bson:"roomCode"`
	Name       string     `json:"name" bson:"name"`
	ClientKey  string     `json:"-" bson:"clientKey,omitempty"`
	Progress   int        `json:"progress" bson:"progress"`
	WPM        int        `json:"wpm" bson:"wpm"`
	FinishedAt *time.Time `json:"finishedAt,omitempty" bson:"finishedAt,omitempty"`
	JoinedAt   time.Time  `json:"joinedAt" bson:"joinedAt"`
}

// PlayerJoinResponse is returned when a player joins a room
type PlayerJoinResponse struct {
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
	Host     bool   `json:"host"`
}
