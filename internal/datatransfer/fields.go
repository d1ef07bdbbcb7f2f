package datatransfer

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/leapstack-labs/leapnav/internal/navigator"
	"github.com/leapstack-labs/leapnav/internal/session"
)

// Query field names registered by RegisterFields.
const (
	FieldGetNodeDDL  = "dataTransferGetNodeDDL"
	FieldNavNodeInfo = "navNodeInfo"
)

// CodeNoSession is reported when a request carries no session.
const CodeNoSession = "NO_SESSION"

// ErrNoSession is returned by field resolvers when the request context has no session.
var ErrNoSession = errors.New("no session")

// NodeInfo describes how a node is classified.
type NodeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NodeType    string `json:"nodeType"`
	Catalog     bool   `json:"catalog"`
	SupportsDDL bool   `json:"supportsDDL"`
}

// Describe classifies the node behind nodeID without generating anything.
func (r *Resolver) Describe(ctx context.Context, sess *session.Session, nodeID string) (*NodeInfo, error) {
	node, err := r.registry.LookupNode(ctx, sess, nodeID)
	if err != nil {
		return nil, err
	}

	info := &NodeInfo{
		ID:       node.ID(),
		Name:     node.Name(),
		NodeType: string(node.NodeType()),
	}
	if dn, ok := node.(navigator.DatabaseNode); ok {
		info.Catalog = true
		info.SupportsDDL = HasDefinitionCapability(dn.Object())
	}
	return info, nil
}

var nodeInfoType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "NavNodeInfo",
	Description: "Classification of a navigator node.",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"nodeType":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"catalog":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"supportsDDL": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

// fieldError attaches a client-facing code to a resolver error.
type fieldError struct {
	err  error
	code string
}

func (e *fieldError) Error() string { return e.err.Error() }

func (e *fieldError) Unwrap() error { return e.err }

// Extensions is read by graphql-go when formatting the error.
func (e *fieldError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func toFieldError(err error) error {
	code := ErrorCode(err)
	if errors.Is(err, ErrNoSession) {
		code = CodeNoSession
	}
	return &fieldError{err: err, code: code}
}

// RegisterFields adds the data transfer query fields to fields. options is
// the input type used for the free-form options argument.
func RegisterFields(fields graphql.Fields, r *Resolver, options graphql.Input) {
	fields[FieldGetNodeDDL] = &graphql.Field{
		Type:        graphql.String,
		Description: "Definition text (DDL) of the catalog object behind a navigator node.",
		Args: graphql.FieldConfigArgument{
			"nodeId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"options": &graphql.ArgumentConfig{Type: options},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			sess, ok := session.FromContext(p.Context)
			if !ok {
				return nil, toFieldError(ErrNoSession)
			}
			nodeID, _ := p.Args["nodeId"].(string)
			opts, _ := p.Args["options"].(map[string]interface{})

			text, err := r.Resolve(p.Context, sess, nodeID, opts)
			if err != nil {
				r.logger.Debug("definition text failed", "node", nodeID, "error", err)
				return nil, toFieldError(err)
			}
			return text, nil
		},
	}

	fields[FieldNavNodeInfo] = &graphql.Field{
		Type:        nodeInfoType,
		Description: "Classification of a navigator node.",
		Args: graphql.FieldConfigArgument{
			"nodeId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			sess, ok := session.FromContext(p.Context)
			if !ok {
				return nil, toFieldError(ErrNoSession)
			}
			nodeID, _ := p.Args["nodeId"].(string)

			info, err := r.Describe(p.Context, sess, nodeID)
			if err != nil {
				return nil, toFieldError(err)
			}
			return info, nil
		},
	}
}
