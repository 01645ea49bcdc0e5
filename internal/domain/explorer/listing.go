package explorer

import "fmt"

// ItemType is the kind of a listing entry.
type ItemType string

const (
	ItemFolder  ItemType = "folder"
	ItemFile    ItemType = "file"
	ItemImage   ItemType = "image"
	ItemAudio   ItemType = "audio"
	ItemVideo   ItemType = "video"
	ItemArchive ItemType = "archive"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemFolder, ItemFile, ItemImage, ItemAudio, ItemVideo, ItemArchive:
		return true
	}
	return false
}

// FileItem is one entry of a folder listing.
type FileItem struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Type         ItemType `json:"type" yaml:"type"`
	Size         string   `json:"size,omitempty" yaml:"size"`
	DateModified string   `json:"date_modified,omitempty" yaml:"date_modified"`
}

// ListingTable maps a folder id to the entries it shows.
type ListingTable map[string][]FileItem

// Lookup returns a copy of the entries for id. Unknown ids are empty
// folders.
func (t ListingTable) Lookup(id string) []FileItem {
	entries := t[id]
	out := make([]FileItem, len(entries))
	copy(out, entries)
	return out
}

// Validate checks every entry has an id, a name and a known type.
func (t ListingTable) Validate() error {
	for folder, entries := range t {
		for _, e := range entries {
			if e.ID == "" || e.Name == "" {
				return fmt.Errorf("listing %q: entry missing id or name", folder)
			}
			if !e.Type.Valid() {
				return fmt.Errorf("listing %q: entry %q has unknown type %q", folder, e.ID, e.Type)
			}
		}
	}
	return nil
}
