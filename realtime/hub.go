// realtime/hub.go
package realtime

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
)

// Filter narrows a full complaint snapshot to what one user may see. The hub
// applies it per client on every broadcast, so clients always receive a
// complete, role-filtered view and never a diff.
type Filter func(user *model.User, complaints []*model.Complaint) []*model.Complaint

// Hub tracks connected clients and fans complaint snapshots out to them.
// All registration and broadcast state is owned by the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	snapshots  chan []*model.Complaint
	filter     Filter
}

func NewHub(filter Filter) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		snapshots:  make(chan []*model.Complaint, 8),
		filter:     filter,
	}
}

// Run owns the client set until ctx ends. Every snapshot is re-filtered per
// client; a client whose send buffer is full is dropped rather than allowed
// to stall the broadcast.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Info("Realtime client connected",
				zap.String("userID", client.user.ID),
				zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logger.Info("Realtime client disconnected",
					zap.String("userID", client.user.ID),
					zap.Int("clients", len(h.clients)))
			}

		case complaints := <-h.snapshots:
			for client := range h.clients {
				visible := h.filter(client.user, complaints)
				select {
				case client.send <- visible:
				default:
					delete(h.clients, client)
					close(client.send)
					logger.Warn("Dropped slow realtime client",
						zap.String("userID", client.user.ID))
				}
			}

		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Broadcast queues a full snapshot for delivery to every connected client.
func (h *Hub) Broadcast(complaints []*model.Complaint) {
	select {
	case h.snapshots <- complaints:
	default:
		// A newer snapshot is already queued; this one is superseded anyway.
		logger.Debug("Snapshot broadcast skipped, queue full")
	}
}

// Feed drives the hub from cross-instance invalidation ticks: each tick
// re-reads the full complaint collection and broadcasts it. Load errors are
// logged and the stale snapshot stays on screen until the next tick.
func Feed(ctx context.Context, hub *Hub, ticks <-chan string, load func(context.Context) ([]*model.Complaint, error)) {
	for {
		select {
		case complaintID, ok := <-ticks:
			if !ok {
				return
			}
			complaints, err := load(ctx)
			if err != nil {
				logger.Error("Failed to load complaint snapshot",
					zap.Error(err),
					zap.String("complaintID", complaintID))
				continue
			}
			hub.Broadcast(complaints)

		case <-ctx.Done():
			return
		}
	}
}
