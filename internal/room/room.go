package room

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nwestbury/lucky-draw-backend/internal/draw"
	"github.com/nwestbury/lucky-draw-backend/internal/notify"
	"github.com/nwestbury/lucky-draw-backend/internal/store"
)

var ErrBusy = errors.New("coordinator busy")
var ErrPersistence = errors.New("could not persist state")

type Msg interface{ isRoomMsg() }

type ClaimMsg struct {
	Cmd   draw.Command
	Reply chan Outcome
}

func (ClaimMsg) isRoomMsg() {}

type ResetMsg struct {
	IsAdmin bool
	Reply   chan Outcome
}

func (ResetMsg) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// Outcome is the result of one claim or reset attempt.
type Outcome struct {
	Number int
	Err    error
}

type View struct {
	Version int
	State   draw.State
}

// Room is the only writer of the draw state. All mutations funnel through its
// loop goroutine, which is the critical section: decide, persist, then
// publish, with no other claim interleaving. Reads are served from the same
// loop, so they always see a whole committed state.
type Room struct {
	inbox     chan Msg
	state     draw.State
	version   int
	store     store.Store
	notifier  *notify.Notifier
	maxNumber int
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewRoom(parent context.Context, initial draw.State, st store.Store, n *notify.Notifier, maxNumber int, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:     make(chan Msg, 64),
		state:     initial,
		version:   0,
		store:     st,
		notifier:  n,
		maxNumber: maxNumber,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
	go r.loop()
	return r
}

// Claim tries to take number for the caller. Zero-value topic/user claims the
// number without recording a drawer. The context bounds the wait for the
// critical section; on expiry the attempt either never entered the section or
// fully committed — there is no partial state either way.
func (r *Room) Claim(ctx context.Context, number int, topic, user string) (int, error) {
	// Cheap validation before the critical section; no side effects yet.
	if number < 1 || number > r.maxNumber {
		return 0, draw.ErrOutOfRange
	}
	if ctx.Err() != nil {
		return 0, ErrBusy
	}

	reply := make(chan Outcome, 1)
	msg := ClaimMsg{
		Cmd:   draw.Command{Type: draw.CmdClaim, Number: number, Topic: topic, User: user},
		Reply: reply,
	}
	select {
	case r.inbox <- msg:
	case <-ctx.Done():
		return 0, ErrBusy
	}

	select {
	case out := <-reply:
		return out.Number, out.Err
	case <-ctx.Done():
		return 0, ErrBusy
	}
}

// Reset wipes the whole aggregate. Authorization is rejected before the
// critical section is ever entered.
func (r *Room) Reset(ctx context.Context, isAdmin bool) error {
	if !isAdmin {
		return draw.ErrForbidden
	}
	if ctx.Err() != nil {
		return ErrBusy
	}

	reply := make(chan Outcome, 1)
	select {
	case r.inbox <- ResetMsg{IsAdmin: isAdmin, Reply: reply}:
	case <-ctx.Done():
		return ErrBusy
	}

	select {
	case out := <-reply:
		return out.Err
	case <-ctx.Done():
		return ErrBusy
	}
}

// View returns a point-in-time copy of the committed state.
func (r *Room) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case r.inbox <- GetState{Reply: reply}:
	case <-ctx.Done():
		return View{}, ErrBusy
	}

	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ErrBusy
	}
}

// Expose the inbox so tests can send messages directly.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.cancel()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case ClaimMsg:
				msg.Reply <- r.apply(msg.Cmd)

			case ResetMsg:
				msg.Reply <- r.apply(draw.Command{Type: draw.CmdReset, IsAdmin: msg.IsAdmin})

			case GetState:
				// state is never mutated in place (Apply clones), so handing
				// it out is race-free.
				msg.Reply <- View{Version: r.version, State: r.state}

			case Shutdown:
				r.cancel()
				return
			}
		}
	}
}

// apply runs one command through decide-persist-publish. It executes on the
// loop goroutine, so the whole sequence is indivisible relative to any other
// mutation.
func (r *Room) apply(cmd draw.Command) Outcome {
	next, err := draw.Apply(r.state, cmd, r.maxNumber)
	if err != nil {
		return Outcome{Err: err}
	}

	if err := r.store.Save(next); err != nil {
		// In-memory state stays at the prior value so it never diverges from
		// the durable copy.
		r.log.Error("persist rejected mutation",
			zap.String("command", string(cmd.Type)),
			zap.Error(err))
		return Outcome{Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}

	r.state = next
	r.version++
	r.notifier.Inbox() <- notify.Publish{Snap: notify.Snapshot{Version: r.version, State: r.state}}
	r.log.Debug("committed mutation",
		zap.String("command", string(cmd.Type)),
		zap.Int("version", r.version))
	return Outcome{Number: cmd.Number, Err: nil}
}
