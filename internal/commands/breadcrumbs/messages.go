package breadcrumbscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	invalidateCacheMessageType = "breadcrumb.cache.invalidate"
	importContentMessageType   = "breadcrumb.content.import"
	seedSiteMessageType        = "breadcrumb.site.seed"
)

// Cache scopes accepted by InvalidateCacheCommand. An empty scope clears both.
const (
	ScopeMenus = "menus"
	ScopePages = "pages"
)

// InvalidateCacheCommand clears cached menu and page lookups.
type InvalidateCacheCommand struct {
	Scope string `json:"scope,omitempty"`
}

func (InvalidateCacheCommand) Type() string { return invalidateCacheMessageType }

func (cmd InvalidateCacheCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Scope, validation.In("", ScopeMenus, ScopePages).
			ErrorObject(validation.NewError("breadcrumb.cache.invalidate.scope_invalid", "scope must be menus or pages"))),
	)
}

// ImportContentCommand builds the content tree from a directory of markdown
// files.
type ImportContentCommand struct {
	// Directory is read from disk unless the handler has a filesystem of its own.
	Directory string `json:"directory"`
	// Root mounts the directory below this content path. Defaults to "/".
	Root          string `json:"root,omitempty"`
	DryRun        bool   `json:"dry_run,omitempty"`
	IncludeDrafts bool   `json:"include_drafts,omitempty"`
}

func (ImportContentCommand) Type() string { return importContentMessageType }

func (cmd ImportContentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("breadcrumb.content.import.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.Root, validation.By(func(value any) error {
			root := strings.TrimSpace(value.(string))
			if root != "" && !strings.HasPrefix(root, "/") {
				return validation.NewError("breadcrumb.content.import.root_invalid", "root must start with /")
			}
			return nil
		})),
	)
}

// SeedSiteCommand applies a YAML site file with menus and pages.
type SeedSiteCommand struct {
	File string `json:"file"`
}

func (SeedSiteCommand) Type() string { return seedSiteMessageType }

func (cmd SeedSiteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.File, validation.Required),
	)
}
