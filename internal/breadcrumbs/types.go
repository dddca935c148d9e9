package breadcrumbs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// LinkNotFoundMode tells the rendering layer what to do with items whose link
// target could not be resolved.
type LinkNotFoundMode string

const (
	LinkNotFoundHide   LinkNotFoundMode = "hide"
	LinkNotFoundUnlink LinkNotFoundMode = "unlink"
)

// ParseLinkNotFoundMode normalises a raw parameter value. Blank input yields
// the empty (absent) mode.
func ParseLinkNotFoundMode(raw string) (LinkNotFoundMode, error) {
	mode := LinkNotFoundMode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case "", LinkNotFoundHide, LinkNotFoundUnlink:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLinkNotFoundMode, raw)
	}
}

// Link is the renderable handle attached to a breadcrumb item.
type Link struct {
	Path     string `json:"path"`
	URL      string `json:"url,omitempty"`
	NotFound bool   `json:"not_found,omitempty"`
}

// Href returns the URL when present, falling back to the path.
func (l Link) Href() string {
	if l.URL != "" {
		return l.URL
	}
	return l.Path
}

// Item is a single (label, link) breadcrumb entry. Items are values and
// never mutated once built.
type Item struct {
	label string
	link  *Link
}

// NewItem builds an item. The link is copied so later changes to the caller's
// value do not leak into the trail.
func NewItem(label string, link *Link) Item {
	item := Item{label: label}
	if link != nil {
		copied := *link
		item.link = &copied
	}
	return item
}

// Label returns the display label. An absent label is the empty string.
func (i Item) Label() string { return i.label }

// Title is an alias kept for templates ported from title-based markup.
func (i Item) Title() string { return i.label }

// Link returns a copy of the link or nil when the item is not linked.
func (i Item) Link() *Link {
	if i.link == nil {
		return nil
	}
	copied := *i.link
	return &copied
}

// HasLink reports whether the item carries a link handle.
func (i Item) HasLink() bool { return i.link != nil }

func (i Item) linkPath() (string, bool) {
	if i.link == nil || i.link.Path == "" {
		return "", false
	}
	return i.link.Path, true
}

// Equal compares label and resolved link path. Absent values only match
// absent values.
func (i Item) Equal(other Item) bool {
	if i.label != other.label {
		return false
	}
	if (i.link == nil) != (other.link == nil) {
		return false
	}
	left, lok := i.linkPath()
	right, rok := other.linkPath()
	if lok != rok {
		return false
	}
	return left == right
}

// Key returns a comparable identity usable as a map key; two items share a
// key iff they are Equal. The label is length prefixed so no label or path
// content can shift the field boundary.
func (i Item) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(i.label)))
	b.WriteByte(':')
	b.WriteString(i.label)
	switch path, ok := i.linkPath(); {
	case i.link == nil:
		b.WriteByte('-')
	case !ok:
		b.WriteByte('0')
	default:
		b.WriteByte('1')
		b.WriteString(path)
	}
	return b.String()
}

// Hash is consistent with Equal.
func (i Item) Hash() uint64 {
	return xxhash.Sum64String(i.Key())
}

func (i Item) String() string {
	link := "null"
	if i.link != nil {
		link = "path:" + i.link.Path
	}
	return fmt.Sprintf("Item[title=%s, link=%s]", i.label, link)
}

type itemJSON struct {
	Label string `json:"label"`
	Link  *Link  `json:"link,omitempty"`
}

// MarshalJSON exposes the unexported fields to JSON consumers.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{Label: i.label, Link: i.link})
}

// UnmarshalJSON restores an item from its JSON form.
func (i *Item) UnmarshalJSON(data []byte) error {
	var payload itemJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	*i = NewItem(payload.Label, payload.Link)
	return nil
}

// Breadcrumb is the trail produced for one request: outermost ancestor first,
// current page last.
type Breadcrumb struct {
	items            []Item
	separator        string
	linkNotFoundMode LinkNotFoundMode
}

// NewBreadcrumb copies items into a new immutable trail.
func NewBreadcrumb(items []Item, separator string, mode LinkNotFoundMode) *Breadcrumb {
	copied := make([]Item, len(items))
	copy(copied, items)
	return &Breadcrumb{
		items:            copied,
		separator:        separator,
		linkNotFoundMode: LinkNotFoundMode(strings.ToLower(string(mode))),
	}
}

// Items returns a copy of the trail.
func (b *Breadcrumb) Items() []Item {
	if b == nil {
		return nil
	}
	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

// Len reports the number of items.
func (b *Breadcrumb) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// IsEmpty reports whether the trail has no items.
func (b *Breadcrumb) IsEmpty() bool { return b.Len() == 0 }

// Separator returns the string rendered between two items.
func (b *Breadcrumb) Separator() string {
	if b == nil {
		return ""
	}
	return b.separator
}

// LinkNotFoundMode returns the lower-cased mode, or "" when absent.
func (b *Breadcrumb) LinkNotFoundMode() LinkNotFoundMode {
	if b == nil {
		return ""
	}
	return b.linkNotFoundMode
}

// Labels is a convenience for logging and tests.
func (b *Breadcrumb) Labels() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.items))
	for idx, item := range b.items {
		out[idx] = item.label
	}
	return out
}

func (b *Breadcrumb) String() string {
	if b == nil {
		return "Breadcrumb[nil]"
	}
	parts := make([]string, len(b.items))
	for idx, item := range b.items {
		parts[idx] = item.String()
	}
	mode := "null"
	if b.linkNotFoundMode != "" {
		mode = string(b.linkNotFoundMode)
	}
	return fmt.Sprintf("Breadcrumb[separator=%s, items=[%s], linkNotFoundMode=%s]", b.separator, strings.Join(parts, ", "), mode)
}

type breadcrumbJSON struct {
	Items            []Item           `json:"items"`
	Separator        string           `json:"separator"`
	LinkNotFoundMode LinkNotFoundMode `json:"link_not_found_mode,omitempty"`
}

// MarshalJSON renders the trail for HTTP consumers.
func (b *Breadcrumb) MarshalJSON() ([]byte, error) {
	payload := breadcrumbJSON{Items: []Item{}}
	if b != nil {
		payload.Items = b.Items()
		payload.Separator = b.separator
		payload.LinkNotFoundMode = b.linkNotFoundMode
	}
	return json.Marshal(payload)
}

// UnmarshalJSON restores a trail from its JSON form.
func (b *Breadcrumb) UnmarshalJSON(data []byte) error {
	var payload breadcrumbJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	*b = *NewBreadcrumb(payload.Items, payload.Separator, payload.LinkNotFoundMode)
	return nil
}
