// Package datatransfer serves the definition text (DDL) of navigator nodes.
package datatransfer

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapnav/internal/catalog"
	"github.com/leapstack-labs/leapnav/internal/navigator"
	"github.com/leapstack-labs/leapnav/internal/session"
)

// NodeRegistry looks up nodes visible to a session.
// *session.NodeRegistry implements it.
type NodeRegistry interface {
	LookupNode(ctx context.Context, sess *session.Session, nodeID string) (navigator.Node, error)
}

// Resolver returns the definition text of catalog nodes.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	registry NodeRegistry
	logger   *slog.Logger
}

// NewResolver creates a resolver. If logger is nil, a discard logger is used.
func NewResolver(registry NodeRegistry, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{registry: registry, logger: logger}
}

// IsCatalogNode reports whether node wraps a database catalog object.
func IsCatalogNode(node navigator.Node) bool {
	_, ok := node.(navigator.DatabaseNode)
	return ok
}

// HasDefinitionCapability reports whether obj can generate definition text.
func HasDefinitionCapability(obj catalog.Object) bool {
	_, ok := obj.(catalog.DefinitionTextProvider)
	return ok
}

// Resolve returns the definition text of the object behind nodeID.
//
// Registry and provider errors are returned unchanged. A node without a
// catalog object yields an *Error of KindNotDatabaseNode carrying nodeID;
// an object that cannot generate definition text yields KindUnsupportedOperation
// carrying the node's own id. A nil options map reaches the provider as an
// empty map. Generation runs under the session's progress context.
func (r *Resolver) Resolve(ctx context.Context, sess *session.Session, nodeID string, options map[string]any) (string, error) {
	node, err := r.registry.LookupNode(ctx, sess, nodeID)
	if err != nil {
		return "", err
	}

	if !IsCatalogNode(node) {
		return "", &Error{Kind: KindNotDatabaseNode, NodeID: nodeID}
	}
	obj := node.(navigator.DatabaseNode).Object()

	if !HasDefinitionCapability(obj) {
		return "", &Error{Kind: KindUnsupportedOperation, NodeID: node.ID()}
	}
	provider := obj.(catalog.DefinitionTextProvider)

	pctx, cancel := sess.ProgressContext(ctx)
	defer cancel()

	r.logger.Debug("generating definition text",
		"session", sess.ID(),
		"node", node.ID(),
		"kind", string(obj.Kind()))

	return provider.DefinitionText(pctx, catalog.NormalizeOptions(options))
}
