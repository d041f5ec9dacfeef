package session

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"typerace/internal/model"
	"typerace/internal/race"
)

// Client is the sync-protocol surface the controller drives: pull a full
// room snapshot, push this player's progress delta.
type Client interface {
	Snapshot(ctx context.Context, code string) (*model.RoomSnapshot, error)
	PushProgress(ctx context.Context, code, playerID string, progress, wpm int) error
}

// Controller binds one player to one room and owns the polling cadence.
// Pulls happen on a fixed interval for as long as Run is live; pushes happen
// on every accepted input change via TypeAhead, not on a timer.
type Controller struct {
	code     string
	playerID string
	client   Client
	clock    clockwork.Clock
	interval time.Duration

	onSnapshot func(*model.RoomSnapshot)

	mu   sync.Mutex
	last *model.RoomSnapshot
}

// NewController creates a controller polling at the given interval.
// onSnapshot may be nil.
func NewController(client Client, clock clockwork.Clock, code, playerID string, interval time.Duration, onSnapshot func(*model.RoomSnapshot)) *Controller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Controller{
		code:       code,
		playerID:   playerID,
		client:     client,
		clock:      clock,
		interval:   interval,
		onSnapshot: onSnapshot,
	}
}

// Run pulls immediately and then once per interval until ctx is cancelled.
// The ticker is released on every exit path.
func (c *Controller) Run(ctx context.Context) error {
	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	c.pull(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			c.pull(ctx)
		}
	}
}

func (c *Controller) pull(ctx context.Context) {
	snap, err := c.client.Snapshot(ctx, c.code)
	if err != nil {
		// Pulls are retried on the next tick; a transient failure only logs.
		log.Warn().Err(err).Str("room", c.code).Msg("snapshot pull failed")
		return
	}

	c.mu.Lock()
	c.last = snap
	c.mu.Unlock()

	if c.onSnapshot != nil {
		c.onSnapshot(snap)
	}
}

// Latest returns the most recently pulled snapshot, or nil before the first
// successful pull.
func (c *Controller) Latest() *model.RoomSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// TypeAhead evaluates the current input buffer against the last pulled room
// state and pushes the result when it is a clean prefix of the reference
// text. Invalid submissions are still scored for local feedback but never
// propagated.
func (c *Controller) TypeAhead(ctx context.Context, input string) (race.Result, error) {
	c.mu.Lock()
	snap := c.last
	c.mu.Unlock()

	if snap == nil || snap.Status != model.RoomInProgress || snap.StartTime == nil {
		return race.Result{}, nil
	}

	elapsed := c.clock.Now().Sub(*snap.StartTime)
	res := race.Evaluate(snap.Text, input, elapsed)
	if !res.ValidSoFar {
		return res, nil
	}

	if err := c.client.PushProgress(ctx, c.code, c.playerID, res.Percent, res.WPM); err != nil {
		return res, err
	}
	return res, nil
}
