package types

import "io/fs"

// NodeKind is the set of filesystem entry types magic mount understands.
type NodeKind int

const (
	KindRegularFile NodeKind = iota
	KindDirectory
	KindSymlink
)

func (k NodeKind) String() string {
	switch k {
	case KindRegularFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// KindOf maps a file mode to a NodeKind. Entry types that cannot be
// mounted (device nodes, pipes, sockets) return ok=false.
func KindOf(mode fs.FileMode) (NodeKind, bool) {
	switch {
	case mode.IsRegular():
		return KindRegularFile, true
	case mode.IsDir():
		return KindDirectory, true
	case mode&fs.ModeSymlink != 0:
		return KindSymlink, true
	default:
		return 0, false
	}
}

// Node is one entry in the virtual tree merged from all enabled
// modules. A node's position in the tree corresponds 1:1 to a
// relative path under the live root.
type Node struct {
	Name     string
	Kind     NodeKind
	Children map[string]*Node

	// ModulePath is the path to the owning module's source entry.
	// Empty for synthetic merge points (the anonymous root and the
	// "system" directory), which exist purely to host merged children.
	ModulePath string

	// Replace hides all pre-existing real content at this path,
	// exposing only module-contributed entries.
	Replace bool
}

// NewRoot returns a synthetic directory node with no owning module.
func NewRoot(name string) *Node {
	return &Node{
		Name:     name,
		Kind:     KindDirectory,
		Children: make(map[string]*Node),
	}
}

// NewModuleNode returns a node owned by the module entry at modulePath.
func NewModuleNode(name string, kind NodeKind, modulePath string) *Node {
	return &Node{
		Name:       name,
		Kind:       kind,
		Children:   make(map[string]*Node),
		ModulePath: modulePath,
	}
}

// Synthetic reports whether the node has no owning module.
func (n *Node) Synthetic() bool {
	return n.ModulePath == ""
}
