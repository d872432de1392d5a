package depfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mill/internal/core/ports"
)

// NodeID is the unique identifier for the dependency loader Graft node.
const NodeID graft.ID = "adapter.dependency_loader"

func init() {
	graft.Register(graft.Node[ports.DependencyLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DependencyLoader, error) {
			return NewLoader(), nil
		},
	})
}
