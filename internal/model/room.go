package model

import "time"

type RoomStatus string

const (
	RoomWaiting    RoomStatus = "waiting"
	RoomStarting   RoomStatus = "starting"
	RoomInProgress RoomStatus = "in-progress"
	RoomFinished   RoomStatus = "finished"
)

// Room is a single race instance keyed by a short join code. Text is fixed at
// creation, StartTime is stamped exactly once on the waiting -> in-progress
// transition, and HostID is claimed by the first joiner and never reassigned.
type Room struct {
	Code      string     `json:"code" bson:"code"`
	Status    RoomStatus `json:"status" bson:"status"`
	Text      string     `json:"text" bson:"text"`
	StartTime *time.Time `json:"startTime,omitempty" bson:"startTime,omitempty"`
	HostID    string     `json:"hostId" bson:"hostId"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// RoomSnapshot is the full pull-side view of a room: the room plus all of its
// players ordered by descending WPM. Ranking is recomputed on every read.
type RoomSnapshot struct {
	Room
	Players []*Player `json:"players"`
}
