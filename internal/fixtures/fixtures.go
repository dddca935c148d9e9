// Package fixtures seeds menus and pages from a YAML site file.
package fixtures

import (
	"bytes"
	"cmp"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-breadcrumb/internal/identity"
	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/internal/validation"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

//go:embed site.schema.json
var siteSchemaJSON []byte

var siteSchema = validation.MustCompile("site.schema.json", siteSchemaJSON)

var ErrEmptyDocument = errors.New("fixtures: site document is empty")

// Site is the decoded site file.
type Site struct {
	Pages []Page `yaml:"pages" json:"pages,omitempty"`
	Menus []Menu `yaml:"menus" json:"menus,omitempty"`
}

type Page struct {
	Path     string `yaml:"path" json:"path"`
	Title    string `yaml:"title" json:"title,omitempty"`
	Kind     string `yaml:"kind" json:"kind,omitempty"`
	Position *int   `yaml:"position" json:"position,omitempty"`
}

type Menu struct {
	Code        string `yaml:"code" json:"code"`
	Location    string `yaml:"location" json:"location,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
	Items       []Item `yaml:"items" json:"items,omitempty"`
}

// Item is a menu item. Code becomes the item's external code and must be
// unique within its menu.
type Item struct {
	Code     string         `yaml:"code" json:"code"`
	Label    string         `yaml:"label" json:"label"`
	Position *int           `yaml:"position" json:"position,omitempty"`
	Target   map[string]any `yaml:"target" json:"target,omitempty"`
	Children []Item         `yaml:"children" json:"children,omitempty"`
}

// Decode reads a YAML (or JSON) site document and validates it against the
// embedded schema.
func Decode(r io.Reader) (*Site, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read site: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyDocument
	}

	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("fixtures: parse site: %w", err)
	}
	if err := siteSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("fixtures: invalid site: %w", err)
	}

	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("fixtures: decode site: %w", err)
	}
	return &site, nil
}

// Load decodes the named site file from fsys.
func Load(fsys fs.FS, name string) (*Site, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("fixtures: open %s: %w", name, err)
	}
	defer file.Close()
	return Decode(file)
}

// Result reports what a Seeder created and what already existed.
type Result struct {
	Pages   []string
	Menus   []string
	Items   []string
	Skipped []string
}

// Seeder applies site documents to the menu and page services. Applying the
// same document twice creates nothing the second time.
type Seeder struct {
	menus  menus.Service
	pages  pages.Service
	logger interfaces.Logger
}

type Option func(*Seeder)

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Seeder) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSeeder(menuService menus.Service, pageService pages.Service, opts ...Option) *Seeder {
	s := &Seeder{menus: menuService, pages: pageService, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Seeder) Apply(ctx context.Context, site *Site) (*Result, error) {
	result := &Result{}
	if site == nil {
		return result, nil
	}
	if len(site.Pages) > 0 && s.pages == nil {
		return nil, errors.New("fixtures: page service not configured")
	}
	if len(site.Menus) > 0 && s.menus == nil {
		return nil, errors.New("fixtures: menu service not configured")
	}

	if err := s.applyPages(ctx, site.Pages, result); err != nil {
		return nil, err
	}
	for _, menu := range site.Menus {
		if err := s.applyMenu(ctx, menu, result); err != nil {
			return nil, err
		}
	}

	s.logger.WithContext(ctx).Info("fixtures.apply.completed",
		"pages", len(result.Pages),
		"menus", len(result.Menus),
		"items", len(result.Items),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

func (s *Seeder) applyPages(ctx context.Context, list []Page, result *Result) error {
	ordered := slices.Clone(list)
	for i := range ordered {
		ordered[i].Path = pages.NormalizePath(ordered[i].Path)
	}
	slices.SortStableFunc(ordered, func(a, b Page) int {
		return cmp.Compare(segments(a.Path), segments(b.Path))
	})

	for _, page := range ordered {
		if _, err := s.pages.GetByPath(ctx, page.Path); err == nil {
			result.Skipped = append(result.Skipped, "page:"+page.Path)
			continue
		} else if !errors.Is(err, pages.ErrPageNotFound) {
			return err
		}

		input := pages.CreatePageInput{
			Title:    page.Title,
			Kind:     pages.Kind(page.Kind),
			Position: page.Position,
		}
		if page.Path != "/" {
			input.ParentPath = path.Dir(page.Path)
			input.Slug = path.Base(page.Path)
		}
		id := identity.PageUUID(page.Path)
		input.ID = &id
		if _, err := s.pages.Create(ctx, input); err != nil {
			return fmt.Errorf("fixtures: create page %s: %w", page.Path, err)
		}
		result.Pages = append(result.Pages, page.Path)
	}
	return nil
}

func (s *Seeder) applyMenu(ctx context.Context, def Menu, result *Result) error {
	input := menus.CreateMenuInput{Code: def.Code, Location: def.Location}
	if desc := strings.TrimSpace(def.Description); desc != "" {
		input.Description = &desc
	}

	menu, err := s.menus.GetMenuByCode(ctx, def.Code)
	switch {
	case err == nil:
		result.Skipped = append(result.Skipped, "menu:"+def.Code)
	case errors.Is(err, menus.ErrMenuNotFound):
		if menu, err = s.menus.CreateMenu(ctx, input); err != nil {
			return fmt.Errorf("fixtures: create menu %s: %w", def.Code, err)
		}
		result.Menus = append(result.Menus, def.Code)
	default:
		return err
	}

	existing, err := s.menus.ListItems(ctx, menu.Code)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(existing))
	collectCodes(existing, known)
	return s.applyItems(ctx, menu, "", def.Items, known, result)
}

func (s *Seeder) applyItems(ctx context.Context, menu *menus.Menu, parent string, items []Item, known map[string]struct{}, result *Result) error {
	for _, item := range items {
		key := menu.Code + ":" + item.Code
		if _, ok := known[item.Code]; ok {
			result.Skipped = append(result.Skipped, "item:"+key)
		} else {
			id := identity.MenuItemUUID(menu.ID, item.Code)
			_, err := s.menus.AddMenuItem(ctx, menus.AddMenuItemInput{
				ID:           &id,
				MenuID:       menu.ID,
				ParentCode:   parent,
				ExternalCode: item.Code,
				Label:        item.Label,
				Target:       item.Target,
				Position:     item.Position,
			})
			if err != nil {
				return fmt.Errorf("fixtures: add item %s: %w", key, err)
			}
			known[item.Code] = struct{}{}
			result.Items = append(result.Items, key)
		}
		if err := s.applyItems(ctx, menu, item.Code, item.Children, known, result); err != nil {
			return err
		}
	}
	return nil
}

// collectCodes records the external codes of items and all their
// descendants. ListItems returns roots only.
func collectCodes(items []*menus.MenuItem, known map[string]struct{}) {
	for _, item := range items {
		if item == nil {
			continue
		}
		known[item.ExternalCode] = struct{}{}
		collectCodes(item.Children, known)
	}
}

func segments(p string) int {
	if p == "/" {
		return 0
	}
	return strings.Count(p, "/")
}
