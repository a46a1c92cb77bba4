package notify

import (
	"context"

	"github.com/nwestbury/lucky-draw-backend/internal/draw"
)

// Snapshot is one committed view of the draw state. Version increments once
// per accepted mutation, so subscribers can order what they receive.
type Snapshot struct {
	Version int
	State   draw.State
}

type Msg interface{ isNotifyMsg() }

type Subscribe struct {
	ID     string
	Outbox chan Snapshot // where this subscriber wants to receive snapshots
}

func (Subscribe) isNotifyMsg() {}

type Unsubscribe struct{ ID string }

func (Unsubscribe) isNotifyMsg() {}

type Publish struct{ Snap Snapshot }

func (Publish) isNotifyMsg() {}

type Shutdown struct{}

func (Shutdown) isNotifyMsg() {}

type Stats struct {
	Reply chan int
}

func (Stats) isNotifyMsg() {}

// Notifier fans committed snapshots out to subscribers. It runs outside the
// coordinator's critical section: the coordinator only drops a Publish into
// the inbox, so a slow observer can never stall a commit.
type Notifier struct {
	inbox   chan Msg
	latest  Snapshot
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewNotifier starts the fan-out loop. initial seeds the snapshot handed to
// subscribers that join before the first mutation.
func NewNotifier(parent context.Context, initial Snapshot) *Notifier {
	ctx, cancel := context.WithCancel(parent)
	n := &Notifier{
		inbox:   make(chan Msg, 64),
		latest:  initial,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
	}
	go n.loop()
	return n
}

func (n *Notifier) Inbox() chan<- Msg { return n.inbox }

func (n *Notifier) loop() {
	for {
		select {
		case <-n.ctx.Done():
			n.shutdown()
			return

		case m := <-n.inbox:
			switch msg := m.(type) {
			case Subscribe:
				// Register, then hand over the baseline before any later broadcast.
				n.clients[msg.ID] = msg.Outbox
				msg.Outbox <- n.latest

			case Unsubscribe:
				delete(n.clients, msg.ID)

			case Publish:
				n.latest = msg.Snap
				n.broadcast(msg.Snap)

			case Stats:
				msg.Reply <- len(n.clients)

			case Shutdown:
				n.shutdown()
				return
			}
		}
	}
}

func (n *Notifier) shutdown() {
	for id, ch := range n.clients {
		close(ch)
		delete(n.clients, id)
	}
	n.cancel()
}

func (n *Notifier) broadcast(snap Snapshot) {
	for id, ch := range n.clients {
		select {
		case ch <- snap:
			// ok
		default:
			// Subscriber is slow/full - drop them.
			close(ch)
			delete(n.clients, id)
		}
	}
}
