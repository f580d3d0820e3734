// Package tunnel is the boundary between the marketplace and the transport
// that carries its bytes. The protocol only ever sees a local TCP endpoint;
// how traffic reaches it is the transport's business.
package tunnel

import (
	"context"
	"net"
)

// Transport is the lifecycle every transport exposes to the core.
type Transport interface {
	// Connect prepares the transport and binds its local endpoint.
	Connect(ctx context.Context) (*Handle, error)
	// Run carries traffic until ctx is cancelled or the transport fails.
	Run(ctx context.Context, h *Handle) error
	Disconnect(h *Handle) error
}

// Handle identifies one connected transport.
type Handle struct {
	ID string
	ln net.Listener
}

// Addr is the local rendezvous endpoint clients connect to.
func (h *Handle) Addr() net.Addr { return h.ln.Addr() }
