package explorer

import "fmt"

// ViewMode selects how the listing pane renders entries.
type ViewMode string

const (
	ViewList  ViewMode = "list"
	ViewTable ViewMode = "table"
)

// IntentKind says what the caller should do after OpenEntry.
type IntentKind string

const (
	// IntentNavigate means the navigator moved into the folder.
	IntentNavigate IntentKind = "navigate"
	// IntentOpenFile asks the caller to open the item; the navigator does not.
	IntentOpenFile IntentKind = "open_file"
)

// Intent is the result of opening a listing entry.
type Intent struct {
	Kind IntentKind `json:"kind"`
	Item FileItem   `json:"item"`
}

// Crumb is one breadcrumb segment.
type Crumb struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type NodeType `json:"type"`
}

// State is the navigation state handed to the renderer.
type State struct {
	CurrentPath    []Crumb    `json:"current_path"`
	SelectedNodeID string     `json:"selected_node_id"`
	SelectedItemID string     `json:"selected_item_id,omitempty"`
	Listing        []FileItem `json:"listing"`
	ViewMode       ViewMode   `json:"view_mode"`
	CanNavigateUp  bool       `json:"can_navigate_up"`
}

// Navigator tracks the current location in a static tree.
//
// Navigator is not safe for concurrent use.
type Navigator struct {
	tree     Tree
	listings ListingTable

	path           []*TreeNode
	selectedNodeID string
	selectedItemID string
	listing        []FileItem
	viewMode       ViewMode
}

// NewNavigator creates a navigator positioned at the first root.
func NewNavigator(tree Tree, listings ListingTable) (*Navigator, error) {
	if len(tree) == 0 {
		return nil, ErrEmptyTree
	}
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	if listings == nil {
		listings = ListingTable{}
	}
	if err := listings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid listings: %w", err)
	}
	n := &Navigator{
		tree:     tree,
		listings: listings,
		viewMode: ViewList,
	}
	n.NavigateHome()
	return n, nil
}

// SelectNode moves to the node with the given id and recomputes the
// breadcrumb and listing. An unknown id leaves the state untouched.
func (n *Navigator) SelectNode(id string) error {
	path, ok := n.tree.FindPath(id)
	if !ok {
		return fmt.Errorf("select %q: %w", id, ErrNodeNotFound)
	}
	n.selectPath(path)
	return nil
}

// NavigateUp moves to the parent of the current node. At a root it does
// nothing and reports false.
func (n *Navigator) NavigateUp() bool {
	if len(n.path) <= 1 {
		return false
	}
	n.selectPath(n.path[:len(n.path)-1])
	return true
}

// NavigateHome moves to the first root.
func (n *Navigator) NavigateHome() {
	n.selectPath(n.tree[:1])
}

// Refresh re-reads the listing of the current node.
func (n *Navigator) Refresh() {
	n.selectPath(n.path)
}

// OpenEntry acts on a listing entry. Folders are located anywhere in the
// tree and navigated into; a folder with no tree node yields
// ErrNodeNotFound. Any other entry becomes an IntentOpenFile for the caller.
func (n *Navigator) OpenEntry(item FileItem) (Intent, error) {
	if item.Type != ItemFolder {
		return Intent{Kind: IntentOpenFile, Item: item}, nil
	}
	if _, ok := n.tree.Find(item.ID); !ok {
		label := item.Name
		if label == "" {
			label = item.ID
		}
		return Intent{}, fmt.Errorf("open folder %q: %w", label, ErrNodeNotFound)
	}
	if err := n.SelectNode(item.ID); err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentNavigate, Item: item}, nil
}

// SelectItem highlights an entry of the current listing.
func (n *Navigator) SelectItem(id string) error {
	for _, item := range n.listing {
		if item.ID == id {
			n.selectedItemID = id
			return nil
		}
	}
	return fmt.Errorf("select item %q: %w", id, ErrItemNotFound)
}

// SetViewMode switches between list and table rendering.
func (n *Navigator) SetViewMode(mode ViewMode) error {
	switch mode {
	case ViewList, ViewTable:
		n.viewMode = mode
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidViewMode, mode)
}

// State returns a copy of the current navigation state.
func (n *Navigator) State() State {
	crumbs := make([]Crumb, len(n.path))
	for i, node := range n.path {
		crumbs[i] = Crumb{ID: node.ID, Name: node.Name, Type: node.Type}
	}
	listing := make([]FileItem, len(n.listing))
	copy(listing, n.listing)

	return State{
		CurrentPath:    crumbs,
		SelectedNodeID: n.selectedNodeID,
		SelectedItemID: n.selectedItemID,
		Listing:        listing,
		ViewMode:       n.viewMode,
		CanNavigateUp:  len(n.path) > 1,
	}
}

// selectPath moves to the last node of a root-to-node path taken from the
// tree, re-reading its listing and clearing the item selection.
func (n *Navigator) selectPath(path []*TreeNode) {
	node := path[len(path)-1]
	n.path = path
	n.selectedNodeID = node.ID
	n.selectedItemID = ""
	n.listing = n.listings.Lookup(node.ID)
}
