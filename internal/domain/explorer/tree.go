package explorer

import "fmt"

// NodeType distinguishes folders from files in the tree.
type NodeType string

const (
	NodeFolder NodeType = "folder"
	NodeFile   NodeType = "file"
)

// TreeNode is one entry of the static folder tree. Only folders have
// children.
type TreeNode struct {
	ID       string      `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	Type     NodeType    `json:"type" yaml:"type"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children"`
}

// Tree is the ordered sequence of root nodes.
type Tree []*TreeNode

// FindPath returns the root-to-node chain ending at id.
func (t Tree) FindPath(id string) ([]*TreeNode, bool) {
	return findPath(t, id, nil)
}

func findPath(nodes []*TreeNode, id string, prefix []*TreeNode) ([]*TreeNode, bool) {
	for _, n := range nodes {
		path := append(prefix[:len(prefix):len(prefix)], n)
		if n.ID == id {
			return path, true
		}
		if found, ok := findPath(n.Children, id, path); ok {
			return found, true
		}
	}
	return nil, false
}

// Find returns the first node with the given id anywhere in the tree.
func (t Tree) Find(id string) (*TreeNode, bool) {
	path, ok := t.FindPath(id)
	if !ok {
		return nil, false
	}
	return path[len(path)-1], true
}

// Validate checks that ids are unique, names are present, and only folders
// carry children.
func (t Tree) Validate() error {
	seen := make(map[string]bool)
	var walk func(nodes []*TreeNode) error
	walk = func(nodes []*TreeNode) error {
		for _, n := range nodes {
			if n == nil {
				return fmt.Errorf("nil tree node")
			}
			if n.ID == "" {
				return fmt.Errorf("tree node %q has no id", n.Name)
			}
			if seen[n.ID] {
				return fmt.Errorf("duplicate tree node id %q", n.ID)
			}
			seen[n.ID] = true
			if n.Name == "" {
				return fmt.Errorf("tree node %q has no name", n.ID)
			}
			switch n.Type {
			case NodeFolder:
			case NodeFile:
				if len(n.Children) > 0 {
					return fmt.Errorf("file node %q has children", n.ID)
				}
			default:
				return fmt.Errorf("tree node %q has unknown type %q", n.ID, n.Type)
			}
			if err := walk(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(t)
}
