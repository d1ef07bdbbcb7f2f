package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapnav/internal/catalog"
	"github.com/leapstack-labs/leapnav/pkg/adapter"
	"github.com/leapstack-labs/leapnav/pkg/core"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownConnection is returned when a connection name is not configured.
var ErrUnknownConnection = errors.New("unknown connection")

// Config is the set of data sources and resources a Tree serves.
type Config struct {
	Connections  map[string]core.ConnectionConfig
	ResourcesDir string
}

// Tree resolves node ids against the configured connections and the
// resources directory. Connections are opened lazily on first use, outside
// the tree lock, so a slow dial never stalls lookups on other connections.
// It is safe for concurrent use.
type Tree struct {
	mu       sync.RWMutex
	cfg      Config
	adapters map[string]core.Adapter
	closed   bool
	dials    singleflight.Group
	logger   *slog.Logger
}

// NewTree creates a navigator tree. If logger is nil, a discard logger is used.
func NewTree(cfg Config, logger *slog.Logger) *Tree {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Connections == nil {
		cfg.Connections = map[string]core.ConnectionConfig{}
	}
	return &Tree{
		cfg:      cfg,
		adapters: make(map[string]core.Adapter),
		logger:   logger,
	}
}

// Connections returns the configured connection names, sorted.
func (t *Tree) Connections() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.cfg.Connections))
	for name := range t.cfg.Connections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Connection returns the configuration of a connection.
func (t *Tree) Connection(name string) (core.ConnectionConfig, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cfg, ok := t.cfg.Connections[name]
	return cfg, ok
}

// ErrTreeClosed is returned when a connection is requested after Close.
var ErrTreeClosed = errors.New("navigator tree closed")

// Adapter returns the connected adapter for a connection, connecting on first use.
// Concurrent callers for the same connection share one dial.
func (t *Tree) Adapter(ctx context.Context, name string) (core.Adapter, error) {
	t.mu.RLock()
	adp, ok := t.adapters[name]
	closed := t.closed
	t.mu.RUnlock()
	if ok {
		return adp, nil
	}
	if closed {
		return nil, ErrTreeClosed
	}

	ch := t.dials.DoChan(name, func() (any, error) {
		return t.connect(context.WithoutCancel(ctx), name)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(core.Adapter), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// connect dials a connection without holding the tree lock and publishes
// the adapter only if the connection is still configured the same way.
func (t *Tree) connect(ctx context.Context, name string) (core.Adapter, error) {
	cfg, ok := t.Connection(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConnection, name)
	}

	acfg := cfg.AdapterConfig()
	adp, err := adapter.NewAdapter(acfg, t.logger.With("connection", name))
	if err != nil {
		return nil, fmt.Errorf("connection %s: %w", name, err)
	}

	t.logger.Debug("opening connection", "connection", name, "type", cfg.Type)
	if err := adp.Connect(ctx, acfg); err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", name, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.adapters[name]; ok {
		_ = adp.Close()
		return existing, nil
	}
	if t.closed {
		_ = adp.Close()
		return nil, ErrTreeClosed
	}
	if current, ok := t.cfg.Connections[name]; !ok || !reflect.DeepEqual(current, cfg) {
		_ = adp.Close()
		return nil, fmt.Errorf("connection %s was reconfigured while connecting", name)
	}

	t.adapters[name] = adp
	return adp, nil
}

// Reload swaps in a new configuration. Connections that were removed or
// whose configuration changed are closed and reopened lazily.
func (t *Tree) Reload(cfg Config) error {
	if cfg.Connections == nil {
		cfg.Connections = map[string]core.ConnectionConfig{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	for name, adp := range t.adapters {
		next, ok := cfg.Connections[name]
		if ok && reflect.DeepEqual(next, t.cfg.Connections[name]) {
			continue
		}
		t.logger.Info("closing connection after reload", "connection", name)
		if err := adp.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(t.adapters, name)
	}

	t.cfg = cfg
	return errors.Join(errs...)
}

// Close closes every open connection.
func (t *Tree) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	var errs []error
	for name, adp := range t.adapters {
		if err := adp.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	clear(t.adapters)
	return errors.Join(errs...)
}

// Resolve resolves a node id. Unresolvable ids return a *NotFoundError;
// database failures other than a missing object are returned as-is.
func (t *Tree) Resolve(ctx context.Context, rawID string) (Node, error) {
	id, err := ParseNodeID(rawID)
	if err != nil {
		return nil, notFound(rawID, err)
	}

	switch id.Scheme {
	case SchemeDB:
		return t.resolveDB(ctx, rawID, id.Path)
	case SchemeFolder:
		return t.resolveFolder(ctx, rawID, id.Path)
	default:
		return t.resolveResource(rawID, id.Path)
	}
}

func (t *Tree) dataSource(name string) (*catalog.DataSource, bool) {
	cfg, ok := t.Connection(name)
	if !ok {
		return nil, false
	}
	open := func(ctx context.Context) (core.Adapter, error) {
		return t.Adapter(ctx, name)
	}
	return catalog.NewDataSource(name, cfg.Type, cfg.Description, open, t.logger), true
}

func (t *Tree) resolveDB(ctx context.Context, rawID string, path []string) (Node, error) {
	if len(path) > 4 {
		return nil, notFound(rawID, nil)
	}

	src, ok := t.dataSource(path[0])
	if !ok {
		return nil, notFound(rawID, fmt.Errorf("%w: %s", ErrUnknownConnection, path[0]))
	}
	if len(path) == 1 {
		return NewCatalogNode(DBNodeID(src.Name()), src), nil
	}

	schema, err := t.findSchema(ctx, src, path[1])
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, notFound(rawID, nil)
	}
	if len(path) == 2 {
		return NewCatalogNode(DBNodeID(src.Name(), schema.Name()), schema), nil
	}

	rel, err := t.findRelation(ctx, src, schema, path[2])
	if errors.Is(err, core.ErrRelationNotFound) {
		return nil, notFound(rawID, nil)
	}
	if err != nil {
		return nil, err
	}
	obj := catalog.NewRelation(schema, *rel)
	if len(path) == 3 {
		return NewCatalogNode(DBNodeID(src.Name(), schema.Name(), rel.Name), obj), nil
	}

	col, err := t.findColumn(ctx, src, schema, rel.Name, path[3])
	if errors.Is(err, core.ErrRelationNotFound) {
		return nil, notFound(rawID, nil)
	}
	if err != nil {
		return nil, err
	}
	return NewCatalogNode(DBNodeID(src.Name(), schema.Name(), rel.Name, col.Name), catalog.NewColumn(obj, *col)), nil
}

// findSchema matches name exactly first, then case-insensitively.
func (t *Tree) findSchema(ctx context.Context, src *catalog.DataSource, name string) (*catalog.Schema, error) {
	adp, err := src.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	schemas, err := adp.ListSchemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("connection %s: %w", src.Name(), err)
	}

	if slices.Contains(schemas, name) {
		return catalog.NewSchema(src, name), nil
	}
	for _, s := range schemas {
		if strings.EqualFold(s, name) {
			return catalog.NewSchema(src, s), nil
		}
	}
	return nil, nil
}

// findRelation tries the name as given, then in the dialect's folded case.
func (t *Tree) findRelation(ctx context.Context, src *catalog.DataSource, schema *catalog.Schema, name string) (*core.Relation, error) {
	adp, err := src.Adapter(ctx)
	if err != nil {
		return nil, err
	}

	rel, err := adp.LookupRelation(ctx, schema.Name(), name)
	if !errors.Is(err, core.ErrRelationNotFound) {
		return rel, err
	}

	var folded string
	switch adp.DialectConfig().Identifiers.Normalization {
	case core.NormLowercase, core.NormCaseInsensitive:
		folded = strings.ToLower(name)
	case core.NormUppercase:
		folded = strings.ToUpper(name)
	}
	if folded == "" || folded == name {
		return nil, err
	}
	return adp.LookupRelation(ctx, schema.Name(), folded)
}

func (t *Tree) findColumn(ctx context.Context, src *catalog.DataSource, schema *catalog.Schema, relation, name string) (*core.Column, error) {
	adp, err := src.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := adp.GetTableMetadata(ctx, schema.Name(), relation)
	if err != nil {
		return nil, err
	}
	for i := range meta.Columns {
		if strings.EqualFold(meta.Columns[i].Name, name) {
			return &meta.Columns[i], nil
		}
	}
	return nil, core.ErrRelationNotFound
}

func (t *Tree) resolveFolder(ctx context.Context, rawID string, path []string) (Node, error) {
	if len(path) != 3 {
		return nil, notFound(rawID, nil)
	}

	kind := FolderKind(strings.ToLower(path[2]))
	if kind != FolderTables && kind != FolderViews {
		return nil, notFound(rawID, nil)
	}

	src, ok := t.dataSource(path[0])
	if !ok {
		return nil, notFound(rawID, fmt.Errorf("%w: %s", ErrUnknownConnection, path[0]))
	}
	schema, err := t.findSchema(ctx, src, path[1])
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, notFound(rawID, nil)
	}

	return &FolderNode{
		id:         NodeID{Scheme: SchemeFolder, Path: []string{src.Name(), schema.Name(), string(kind)}}.String(),
		Connection: src.Name(),
		Schema:     schema.Name(),
		Kind:       kind,
	}, nil
}

func (t *Tree) resolveResource(rawID string, path []string) (Node, error) {
	t.mu.RLock()
	root := t.cfg.ResourcesDir
	t.mu.RUnlock()
	if root == "" {
		return nil, notFound(rawID, errors.New("no resources directory configured"))
	}

	rel := filepath.Clean(filepath.Join(path...))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return nil, notFound(rawID, errors.New("path escapes resources directory"))
	}

	full := filepath.Join(root, rel)
	info, err := os.Stat(full)
	if err != nil {
		return nil, notFound(rawID, err)
	}

	return &ResourceNode{
		id:   NodeID{Scheme: SchemeFS, Path: strings.Split(filepath.ToSlash(rel), "/")}.String(),
		Path: full,
		Dir:  info.IsDir(),
	}, nil
}
