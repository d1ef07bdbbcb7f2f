package session

import (
	"context"

	"github.com/leapstack-labs/leapnav/internal/navigator"
)

// Resolver resolves node ids. *navigator.Tree implements it.
type Resolver interface {
	Resolve(ctx context.Context, id string) (navigator.Node, error)
}

// NodeRegistry looks nodes up through the session's node cache, resolving
// and caching on a miss.
type NodeRegistry struct {
	resolver Resolver
}

// NewNodeRegistry creates a node registry backed by resolver.
func NewNodeRegistry(resolver Resolver) *NodeRegistry {
	return &NodeRegistry{resolver: resolver}
}

// LookupNode returns the node for id. Resolution errors are returned as-is.
func (r *NodeRegistry) LookupNode(ctx context.Context, sess *Session, id string) (navigator.Node, error) {
	if node, ok := sess.Nodes.Get(id); ok {
		return node, nil
	}

	node, err := r.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Nodes.Put(node, id)
	return node, nil
}
