package race

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNotAuthorized      = errors.New("not room host")
	ErrRaceAlreadyStarted = errors.New("race already started")
	ErrCodeExhausted      = errors.New("failed to generate unique room code")
)
