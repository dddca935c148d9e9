package menus

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Target keys understood on MenuItem.Target.
const (
	// TargetPath is the site relative path the item points at.
	TargetPath = "path"
	// TargetContent binds the item to a content path. An empty string marks
	// the item as unbound (faceted navigation).
	TargetContent = "content"
	TargetRoute   = "route"
	TargetParams  = "params"
	TargetQuery   = "query"
	// TargetURL is an absolute URL used verbatim.
	TargetURL = "url"
)

// Menu represents a navigational container that groups hierarchical items.
type Menu struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID          uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	Code        string      `bun:"code,notnull,unique" json:"code"`
	Location    string      `bun:"location" json:"location,omitempty"`
	Description *string     `bun:"description" json:"description,omitempty"`
	CreatedAt   time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Items       []*MenuItem `bun:"-" json:"items,omitempty"`
}

// MenuItem describes a single navigational entry with optional hierarchy.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID           uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	MenuID       uuid.UUID      `bun:"menu_id,notnull,type:uuid" json:"menu_id"`
	ParentID     *uuid.UUID     `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	ExternalCode string         `bun:"external_code" json:"external_code,omitempty"`
	Position     int            `bun:"position,notnull,default:0" json:"position"`
	Label        string         `bun:"label,notnull" json:"label"`
	Target       map[string]any `bun:"target,type:jsonb,notnull" json:"target,omitempty"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Children     []*MenuItem    `bun:"-" json:"children,omitempty"`
}
