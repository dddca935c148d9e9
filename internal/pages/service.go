package pages

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-breadcrumb/internal/identity"
	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// maxDepth bounds parent walks on corrupt trees.
const maxDepth = 256

// Service manages the content tree.
type Service interface {
	Create(ctx context.Context, input CreatePageInput) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*Page, error)
	GetByPath(ctx context.Context, path string) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Children(ctx context.Context, id uuid.UUID) ([]*Page, error)
	// Parent returns nil for root level pages.
	Parent(ctx context.Context, page *Page) (*Page, error)
	// Ancestors returns the ancestors of page ordered from the root down.
	Ancestors(ctx context.Context, page *Page) ([]*Page, error)
	IsAncestor(ancestor, descendant *Page) bool
	InvalidateCache(ctx context.Context) error
}

// CreatePageInput captures the data required to register a page.
type CreatePageInput struct {
	ID *uuid.UUID
	// ParentID or ParentPath selects the parent; ParentID wins when both are set.
	ParentID   *uuid.UUID
	ParentPath string
	Slug       string
	Title      string
	Kind       Kind
	Position   *int
}

var (
	ErrPageNotFound    = errors.New("pages: page not found")
	ErrParentNotFound  = errors.New("pages: parent page not found")
	ErrPathExists      = errors.New("pages: path already exists")
	ErrSlugRequired    = errors.New("pages: slug is required")
	ErrSlugInvalid     = errors.New("pages: slug contains invalid characters")
	ErrKindInvalid     = errors.New("pages: kind must be folder or document")
	ErrPositionInvalid = errors.New("pages: position must be zero or positive")
)

// ServiceOption configures the page service.
type ServiceOption func(*pageService)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *pageService) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *pageService) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithDeterministicIDs derives page IDs from their paths.
func WithDeterministicIDs(enabled bool) ServiceOption {
	return func(s *pageService) {
		s.deterministicIDs = enabled
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *pageService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type pageService struct {
	pages            PageRepository
	now              func() time.Time
	newID            func() uuid.UUID
	deterministicIDs bool
	logger           interfaces.Logger
}

// NewService constructs a page service.
func NewService(repo PageRepository, opts ...ServiceOption) Service {
	s := &pageService{
		pages:  repo,
		now:    time.Now,
		newID:  uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a page under its parent. A page without parent and slug
// becomes the root at "/".
func (s *pageService) Create(ctx context.Context, input CreatePageInput) (*Page, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(string(input.Kind))))
	if kind == "" {
		kind = KindDocument
	}
	if !kind.Valid() {
		return nil, ErrKindInvalid
	}
	if input.Position != nil && *input.Position < 0 {
		return nil, ErrPositionInvalid
	}

	parent, err := s.lookupParent(ctx, input)
	if err != nil {
		return nil, err
	}

	pageSlug := ""
	if raw := strings.TrimSpace(input.Slug); raw != "" {
		pageSlug, err = slug.Normalize(raw)
		if err != nil || pageSlug == "" {
			return nil, ErrSlugInvalid
		}
	}
	if pageSlug == "" && parent != nil {
		return nil, ErrSlugRequired
	}

	path := JoinPath(parent, pageSlug)
	if _, err := s.pages.GetByPath(ctx, path); err == nil {
		return nil, ErrPathExists
	} else if !isNotFound(err) {
		return nil, err
	}

	var parentID *uuid.UUID
	if parent != nil {
		id := parent.ID
		parentID = &id
	}
	position := 0
	if input.Position != nil {
		position = *input.Position
	} else {
		siblings, err := s.pages.ListChildren(ctx, parentID)
		if err != nil {
			return nil, err
		}
		position = len(siblings)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = pageSlug
	}

	id := s.nextID()
	switch {
	case input.ID != nil && *input.ID != uuid.Nil:
		id = *input.ID
	case s.deterministicIDs:
		id = identity.PageUUID(path)
	}

	now := s.now()
	created, err := s.pages.Create(ctx, &Page{
		ID:        id,
		ParentID:  parentID,
		Slug:      pageSlug,
		Title:     title,
		Path:      path,
		Kind:      kind,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("pages.page.created", "path", created.Path, "kind", created.Kind, "page_id", created.ID)
	return created, nil
}

func (s *pageService) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return page, nil
}

// GetByPath looks a page up by its normalized content path.
func (s *pageService) GetByPath(ctx context.Context, path string) (*Page, error) {
	page, err := s.pages.GetByPath(ctx, NormalizePath(path))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return page, nil
}

func (s *pageService) List(ctx context.Context) ([]*Page, error) {
	return s.pages.List(ctx)
}

func (s *pageService) Children(ctx context.Context, id uuid.UUID) ([]*Page, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.pages.ListChildren(ctx, &id)
}

func (s *pageService) Parent(ctx context.Context, page *Page) (*Page, error) {
	if page == nil || page.ParentID == nil {
		return nil, nil
	}
	parent, err := s.pages.GetByID(ctx, *page.ParentID)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("pages.parent.missing", "path", page.Path, "parent_id", *page.ParentID)
			return nil, nil
		}
		return nil, err
	}
	return parent, nil
}

func (s *pageService) Ancestors(ctx context.Context, page *Page) ([]*Page, error) {
	var chain []*Page
	current := page
	for range maxDepth {
		parent, err := s.Parent(ctx, current)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		chain = append(chain, parent)
		current = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// IsAncestor reports whether ancestor's path strictly contains descendant's
// path on a segment boundary.
func (s *pageService) IsAncestor(ancestor, descendant *Page) bool {
	if ancestor == nil || descendant == nil {
		return false
	}
	return IsAncestorPath(ancestor.Path, descendant.Path)
}

func (s *pageService) InvalidateCache(ctx context.Context) error {
	if invalidator, ok := s.pages.(interface {
		InvalidateCache(ctx context.Context) error
	}); ok {
		return invalidator.InvalidateCache(ctx)
	}
	return nil
}

func (s *pageService) lookupParent(ctx context.Context, input CreatePageInput) (*Page, error) {
	var (
		parent *Page
		err    error
	)
	switch {
	case input.ParentID != nil && *input.ParentID != uuid.Nil:
		parent, err = s.pages.GetByID(ctx, *input.ParentID)
	case strings.TrimSpace(input.ParentPath) != "":
		parent, err = s.pages.GetByPath(ctx, NormalizePath(input.ParentPath))
	default:
		return nil, nil
	}
	if err != nil {
		if isNotFound(err) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}
	return parent, nil
}

func (s *pageService) nextID() uuid.UUID {
	if id := s.newID(); id != uuid.Nil {
		return id
	}
	return uuid.New()
}

// NormalizePath returns a content path with a single leading slash and no
// trailing slash; blank input maps to the root.
func NormalizePath(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	return "/" + trimmed
}

// JoinPath builds a child path below parent.
func JoinPath(parent *Page, slug string) string {
	if parent == nil || parent.Path == "/" || parent.Path == "" {
		return NormalizePath(slug)
	}
	if slug == "" {
		return parent.Path
	}
	return parent.Path + "/" + slug
}

// IsAncestorPath reports whether ancestor is a strict path prefix of
// descendant on a segment boundary.
func IsAncestorPath(ancestor, descendant string) bool {
	if ancestor == "" || descendant == "" || ancestor == descendant {
		return false
	}
	if ancestor == "/" {
		return strings.HasPrefix(descendant, "/")
	}
	return strings.HasPrefix(descendant, ancestor+"/")
}

func mapNotFound(err error) error {
	if isNotFound(err) {
		return ErrPageNotFound
	}
	return err
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
