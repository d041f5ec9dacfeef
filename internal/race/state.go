package race

import "typerace/internal/model"

// The room lifecycle is waiting -> in-progress -> finished. The "starting"
// status exists in the vocabulary as a non-blocking intermediate: rooms in it
// behave like waiting rooms for the start transition but are already closed
// to new joiners.

// CanJoin reports whether a new player may be enrolled in a room with the
// given status.
func CanJoin(s model.RoomStatus) bool {
	return s == model.RoomWaiting
}

// CanStart reports whether a room with the given status may transition to
// in-progress.
func CanStart(s model.RoomStatus) bool {
	return s == model.RoomWaiting || s == model.RoomStarting
}

// Started reports whether the race has a stamped start time, i.e. the room is
// in-progress or finished.
func Started(s model.RoomStatus) bool {
	return s == model.RoomInProgress || s == model.RoomFinished
}
