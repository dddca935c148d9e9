package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Kind distinguishes structural folders from renderable documents.
type Kind string

const (
	KindFolder   Kind = "folder"
	KindDocument Kind = "document"
)

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	return k == KindFolder || k == KindDocument
}

// Page is a node of the content tree. Path is unique and always starts with
// "/"; the root page has the path "/" and an empty slug.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ParentID  *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	Slug      string     `bun:"slug" json:"slug"`
	Title     string     `bun:"title,notnull" json:"title"`
	Path      string     `bun:"path,notnull,unique" json:"path"`
	Kind      Kind       `bun:"kind,notnull" json:"kind"`
	Position  int        `bun:"position,notnull,default:0" json:"position"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Children  []*Page    `bun:"-" json:"children,omitempty"`
}

// IsDocument reports whether the page is a document.
func (p *Page) IsDocument() bool {
	return p != nil && p.Kind == KindDocument
}

// IsRoot reports whether the page is the content root.
func (p *Page) IsRoot() bool {
	return p != nil && p.ParentID == nil && p.Path == "/"
}
