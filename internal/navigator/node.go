// Package navigator resolves navigator node ids to nodes.
//
// Node ids use three schemes:
//
//	db://<connection>[/<schema>[/<object>[/<column>]]]  catalog nodes
//	folder://<connection>/<schema>/<tables|views>       grouping folders
//	fs://<path>                                         resource files under resources_dir
//
// Only db:// nodes wrap a catalog object.
package navigator

import (
	"path"

	"github.com/leapstack-labs/leapnav/internal/catalog"
)

// NodeType classifies a node.
type NodeType string

// Node types.
const (
	TypeDataSource NodeType = "datasource"
	TypeSchema     NodeType = "schema"
	TypeTable      NodeType = "table"
	TypeView       NodeType = "view"
	TypeColumn     NodeType = "column"
	TypeFolder     NodeType = "folder"
	TypeResource   NodeType = "resource"
)

// Node is an entry of the navigator tree.
type Node interface {
	// ID returns the canonical node id.
	ID() string
	Name() string
	NodeType() NodeType
}

// DatabaseNode is a node that wraps a database catalog object.
type DatabaseNode interface {
	Node
	Object() catalog.Object
}

// CatalogNode wraps a catalog object.
type CatalogNode struct {
	id  string
	obj catalog.Object
}

// NewCatalogNode creates a catalog node with the given canonical id.
func NewCatalogNode(id string, obj catalog.Object) *CatalogNode {
	return &CatalogNode{id: id, obj: obj}
}

// ID returns the canonical node id.
func (n *CatalogNode) ID() string { return n.id }

// Name returns the object name.
func (n *CatalogNode) Name() string { return n.obj.Name() }

// NodeType maps the object kind to a node type.
func (n *CatalogNode) NodeType() NodeType { return NodeType(n.obj.Kind()) }

// Object returns the wrapped catalog object.
func (n *CatalogNode) Object() catalog.Object { return n.obj }

// FolderKind names the grouping folders under a schema.
type FolderKind string

// Folder kinds.
const (
	FolderTables FolderKind = "tables"
	FolderViews  FolderKind = "views"
)

// FolderNode groups the tables or views of a schema.
type FolderNode struct {
	id         string
	Connection string
	Schema     string
	Kind       FolderKind
}

// ID returns the canonical node id.
func (n *FolderNode) ID() string { return n.id }

// Name returns the folder label.
func (n *FolderNode) Name() string { return string(n.Kind) }

// NodeType returns TypeFolder.
func (n *FolderNode) NodeType() NodeType { return TypeFolder }

// ResourceNode is a file or directory under the resources root.
type ResourceNode struct {
	id string
	// Path is the absolute filesystem path.
	Path string
	Dir  bool
}

// ID returns the canonical node id.
func (n *ResourceNode) ID() string { return n.id }

// Name returns the base name of the resource.
func (n *ResourceNode) Name() string {
	return path.Base(n.id)
}

// NodeType returns TypeResource.
func (n *ResourceNode) NodeType() NodeType { return TypeResource }

var (
	_ DatabaseNode = (*CatalogNode)(nil)
	_ Node         = (*FolderNode)(nil)
	_ Node         = (*ResourceNode)(nil)
)
