package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Image is a reference to a picture of a product. Only the URL is stored.
type Image struct {
	URL  string `json:"url" csv:"url"`
	Name string `json:"name" csv:"name"`
}

// Product is a single catalog record.
// ID is assigned once at creation and never changes; positions shift on delete, ids do not.
type Product struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Number      string  `json:"number"` // human readable catalog / model designator
	Description string  `json:"description"`
	Images      []Image `json:"images"`
}

// NewID returns a fresh product identifier.
func NewID() string {
	return uuid.New().String()
}

// Clone returns a deep copy so callers can never alias the store's image slices.
func (p Product) Clone() Product {
	out := p
	out.Images = make([]Image, len(p.Images))
	copy(out.Images, p.Images)
	return out
}

// Normalize makes sure every field is present. A nil image list becomes an empty one.
func (p *Product) Normalize() {
	if p.Images == nil {
		p.Images = []Image{}
	}
}

// AppendImage adds {url, ""} to the image list. Blank urls are ignored and false is returned.
func (p *Product) AppendImage(url string) bool {
	if strings.TrimSpace(url) == "" {
		return false
	}
	p.Images = append(p.Images, Image{URL: url, Name: ""})
	return true
}

// RemoveImageAt drops the image at index i.
func (p *Product) RemoveImageAt(i int) error {
	if i < 0 || i >= len(p.Images) {
		return ErrIndexOutOfRange
	}
	images := make([]Image, 0, len(p.Images)-1)
	images = append(images, p.Images[:i]...)
	images = append(images, p.Images[i+1:]...)
	p.Images = images
	return nil
}

// ChangeEvent is published to subscribers after every successful mutation and
// whenever the store adopts a snapshot written by another process.
type ChangeEvent struct {
	Version uint64 `json:"version"`
	Op      string `json:"op"`
	ID      string `json:"id,omitempty"`
	Count   int    `json:"count"`
}

// Change operations
const (
	OpSeed        = "seed"
	OpCreate      = "create"
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpAppendImage = "append_image"
	OpRemoveImage = "remove_image"
	OpReplaceAll  = "replace_all"
	OpAssignIDs   = "assign_ids"
	OpReload      = "reload"
)
