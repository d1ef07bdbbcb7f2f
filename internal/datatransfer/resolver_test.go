package datatransfer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/leapstack-labs/leapnav/internal/catalog"
	"github.com/leapstack-labs/leapnav/internal/navigator"
	"github.com/leapstack-labs/leapnav/internal/session"
	"github.com/leapstack-labs/leapnav/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNode is a node without a catalog object, like a filesystem node.
type fakeNode struct {
	id   string
	name string
}

func (n *fakeNode) ID() string                  { return n.id }
func (n *fakeNode) Name() string                { return n.name }
func (n *fakeNode) NodeType() navigator.NodeType { return navigator.TypeResource }

// fakeDBNode wraps a catalog object.
type fakeDBNode struct {
	fakeNode
	obj catalog.Object
}

func (n *fakeDBNode) NodeType() navigator.NodeType { return navigator.NodeType(n.obj.Kind()) }
func (n *fakeDBNode) Object() catalog.Object       { return n.obj }

// plainObject has no definition text capability.
type plainObject struct {
	name string
	kind catalog.Kind
}

func (o *plainObject) Name() string          { return o.name }
func (o *plainObject) Kind() catalog.Kind    { return o.kind }
func (o *plainObject) QualifiedName() string { return o.name }

// fakeProvider records the arguments of DefinitionText.
type fakeProvider struct {
	plainObject
	text  string
	err   error
	block bool

	mu      sync.Mutex
	calls   int
	gotOpts catalog.Options
}

func (p *fakeProvider) DefinitionText(ctx context.Context, opts catalog.Options) (string, error) {
	p.mu.Lock()
	p.calls++
	p.gotOpts = opts
	p.mu.Unlock()

	if p.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p.text, p.err
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// fakeRegistry serves nodes from a map.
type fakeRegistry struct {
	nodes map[string]navigator.Node
	err   error
}

func (r *fakeRegistry) LookupNode(_ context.Context, _ *session.Session, nodeID string) (navigator.Node, error) {
	if r.err != nil {
		return nil, r.err
	}
	n, ok := r.nodes[nodeID]
	if !ok {
		return nil, &navigator.NotFoundError{NodeID: nodeID}
	}
	return n, nil
}

func newTestResolver(t *testing.T, nodes map[string]navigator.Node) *Resolver {
	t.Helper()
	return NewResolver(&fakeRegistry{nodes: nodes}, testutil.NewTestLogger(t))
}

func TestResolve_Scenarios(t *testing.T) {
	table := &fakeProvider{
		plainObject: plainObject{name: "tbl1", kind: catalog.KindTable},
		text:        "CREATE TABLE tbl1 (...)",
	}
	view := &plainObject{name: "view1", kind: catalog.KindView}

	r := newTestResolver(t, map[string]navigator.Node{
		"db://catalog/tbl1":  &fakeDBNode{fakeNode: fakeNode{id: "db://catalog/tbl1", name: "tbl1"}, obj: table},
		"fs://folder/x":      &fakeNode{id: "fs://folder/x", name: "x"},
		"db://catalog/view1": &fakeDBNode{fakeNode: fakeNode{id: "view1", name: "view1"}, obj: view},
	})
	sess := session.New("test")
	ctx := context.Background()

	t.Run("catalog node with capability", func(t *testing.T) {
		got, err := r.Resolve(ctx, sess, "db://catalog/tbl1", nil)
		require.NoError(t, err)
		assert.Equal(t, "CREATE TABLE tbl1 (...)", got)
		require.NotNil(t, table.gotOpts)
		assert.Empty(t, table.gotOpts)
	})

	t.Run("filesystem node", func(t *testing.T) {
		_, err := r.Resolve(ctx, sess, "fs://folder/x", nil)
		require.ErrorIs(t, err, ErrNotDatabaseNode)

		var rerr *Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, KindNotDatabaseNode, rerr.Kind)
		assert.Equal(t, "fs://folder/x", rerr.NodeID)
		assert.Equal(t, "node 'fs://folder/x' is not database node", err.Error())
	})

	t.Run("object without capability", func(t *testing.T) {
		_, err := r.Resolve(ctx, sess, "db://catalog/view1", nil)
		require.ErrorIs(t, err, ErrUnsupportedOperation)

		var rerr *Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "view1", rerr.NodeID, "carries the node's own id, not the lookup id")
		assert.Equal(t, "object 'view1' doesn't support DDL", err.Error())
	})

	t.Run("unknown node", func(t *testing.T) {
		_, err := r.Resolve(ctx, sess, "does-not-exist", nil)
		require.ErrorIs(t, err, navigator.ErrNodeNotFound)
		assert.False(t, errors.Is(err, ErrNotDatabaseNode))
		assert.False(t, errors.Is(err, ErrUnsupportedOperation))
	})
}

func TestResolve_RegistryErrorUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		regErr error
	}{
		{name: "not found", regErr: &navigator.NotFoundError{NodeID: "db://c/t"}},
		{name: "lookup failure", regErr: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{plainObject: plainObject{name: "t", kind: catalog.KindTable}, text: "ddl"}
			registry := &fakeRegistry{nodes: map[string]navigator.Node{
				"db://c/t": &fakeDBNode{fakeNode: fakeNode{id: "db://c/t", name: "t"}, obj: provider},
			}}
			r := NewResolver(registry, nil)
			sess := session.New("s")

			// The node is reachable while the registry works.
			got, err := r.Resolve(context.Background(), sess, "db://c/t", nil)
			require.NoError(t, err)
			require.Equal(t, "ddl", got)
			require.Equal(t, 1, provider.callCount())

			registry.err = tt.regErr
			_, err = r.Resolve(context.Background(), sess, "db://c/t", nil)
			assert.Same(t, tt.regErr, err)
			assert.Equal(t, 1, provider.callCount(), "a failed lookup never reaches the provider")
		})
	}
}

func TestResolve_NotDatabaseNodeUsesLookupID(t *testing.T) {
	// The registry accepts a lenient id; the error must echo what the caller sent.
	r := newTestResolver(t, map[string]navigator.Node{
		"FS://folder/x/": &fakeNode{id: "fs://folder/x", name: "x"},
	})

	_, err := r.Resolve(context.Background(), session.New("s"), "FS://folder/x/", nil)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "FS://folder/x/", rerr.NodeID)
}

func TestResolve_Options(t *testing.T) {
	provider := &fakeProvider{plainObject: plainObject{name: "t", kind: catalog.KindTable}, text: "ddl"}
	r := newTestResolver(t, map[string]navigator.Node{
		"db://c/s/t": &fakeDBNode{fakeNode: fakeNode{id: "db://c/s/t"}, obj: provider},
	})
	sess := session.New("s")

	tests := []struct {
		name string
		in   map[string]any
		want catalog.Options
	}{
		{name: "nil", in: nil, want: catalog.Options{}},
		{name: "empty", in: map[string]any{}, want: catalog.Options{}},
		{name: "values", in: map[string]any{"script.includeDrop": true}, want: catalog.Options{"script.includeDrop": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), sess, "db://c/s/t", tt.in)
			require.NoError(t, err)
			require.NotNil(t, provider.gotOpts)
			assert.Equal(t, tt.want, provider.gotOpts)
		})
	}
}

func TestResolve_ProviderResult(t *testing.T) {
	const text = "  CREATE VIEW v AS\n\tSELECT 1;  \n"
	genErr := errors.New("permission denied for relation t")

	ok := &fakeProvider{plainObject: plainObject{name: "v", kind: catalog.KindView}, text: text}
	failing := &fakeProvider{plainObject: plainObject{name: "t", kind: catalog.KindTable}, err: genErr}
	r := newTestResolver(t, map[string]navigator.Node{
		"db://c/s/v": &fakeDBNode{fakeNode: fakeNode{id: "db://c/s/v"}, obj: ok},
		"db://c/s/t": &fakeDBNode{fakeNode: fakeNode{id: "db://c/s/t"}, obj: failing},
	})
	sess := session.New("s")

	got, err := r.Resolve(context.Background(), sess, "db://c/s/v", nil)
	require.NoError(t, err)
	assert.Equal(t, text, got, "text is returned unmodified")

	_, err = r.Resolve(context.Background(), sess, "db://c/s/t", nil)
	assert.Same(t, genErr, err)
}

func TestResolve_Cancellation(t *testing.T) {
	newBlocking := func(t *testing.T) (*Resolver, *fakeProvider) {
		provider := &fakeProvider{plainObject: plainObject{name: "t", kind: catalog.KindTable}, block: true}
		return newTestResolver(t, map[string]navigator.Node{
			"db://c/s/t": &fakeDBNode{fakeNode: fakeNode{id: "db://c/s/t"}, obj: provider},
		}), provider
	}

	t.Run("request cancelled", func(t *testing.T) {
		r, provider := newBlocking(t)
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(10*time.Millisecond, cancel)

		_, err := r.Resolve(ctx, session.New("s"), "db://c/s/t", nil)
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, errors.Is(err, ErrUnsupportedOperation))
		assert.False(t, errors.Is(err, ErrNotDatabaseNode))
		assert.Equal(t, 1, provider.callCount())
	})

	t.Run("session closed", func(t *testing.T) {
		r, _ := newBlocking(t)
		sess := session.New("s")
		time.AfterFunc(10*time.Millisecond, sess.Close)

		_, err := r.Resolve(context.Background(), sess, "db://c/s/t", nil)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, CodeCancelled, ErrorCode(err))
	})
}

func TestResolve_Concurrent(t *testing.T) {
	provider := &fakeProvider{plainObject: plainObject{name: "t", kind: catalog.KindTable}, text: "ddl"}
	r := newTestResolver(t, map[string]navigator.Node{
		"db://c/s/t": &fakeDBNode{fakeNode: fakeNode{id: "db://c/s/t"}, obj: provider},
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Resolve(context.Background(), session.New("s"), "db://c/s/t", nil)
			assert.NoError(t, err)
			assert.Equal(t, "ddl", got)
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, provider.callCount())
}

func TestCapabilityChecks(t *testing.T) {
	assert.False(t, IsCatalogNode(&fakeNode{id: "fs://a"}))
	assert.True(t, IsCatalogNode(&fakeDBNode{obj: &plainObject{}}))

	assert.False(t, HasDefinitionCapability(&plainObject{}))
	assert.True(t, HasDefinitionCapability(&fakeProvider{}))
}

func TestDescribe(t *testing.T) {
	r := newTestResolver(t, map[string]navigator.Node{
		"db://c/s/t": &fakeDBNode{fakeNode: fakeNode{id: "db://c/s/t", name: "t"}, obj: &fakeProvider{plainObject: plainObject{name: "t", kind: catalog.KindTable}}},
		"db://c/s":   &fakeDBNode{fakeNode: fakeNode{id: "db://c/s", name: "s"}, obj: &plainObject{name: "s", kind: catalog.KindSchema}},
		"fs://a":     &fakeNode{id: "fs://a", name: "a"},
	})
	sess := session.New("s")

	info, err := r.Describe(context.Background(), sess, "db://c/s/t")
	require.NoError(t, err)
	assert.Equal(t, &NodeInfo{ID: "db://c/s/t", Name: "t", NodeType: "table", Catalog: true, SupportsDDL: true}, info)

	info, err = r.Describe(context.Background(), sess, "db://c/s")
	require.NoError(t, err)
	assert.True(t, info.Catalog)
	assert.False(t, info.SupportsDDL)

	info, err = r.Describe(context.Background(), sess, "fs://a")
	require.NoError(t, err)
	assert.False(t, info.Catalog)

	_, err = r.Describe(context.Background(), sess, "nope")
	require.ErrorIs(t, err, navigator.ErrNodeNotFound)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&navigator.NotFoundError{NodeID: "x"}, CodeNodeNotFound},
		{&Error{Kind: KindNotDatabaseNode, NodeID: "x"}, CodeNotDatabaseNode},
		{&Error{Kind: KindUnsupportedOperation, NodeID: "x"}, CodeUnsupportedOperation},
		{context.Canceled, CodeCancelled},
		{context.DeadlineExceeded, CodeCancelled},
		{errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}
