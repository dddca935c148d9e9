package menus

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-breadcrumb/internal/identity"
	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
	"github.com/google/uuid"
)

// Service describes menu management and navigation capabilities.
type Service interface {
	CreateMenu(ctx context.Context, input CreateMenuInput) (*Menu, error)
	GetOrCreateMenu(ctx context.Context, input CreateMenuInput) (*Menu, error)
	GetMenuByCode(ctx context.Context, code string) (*Menu, error)
	ListMenus(ctx context.Context) ([]*Menu, error)
	DeleteMenu(ctx context.Context, code string) error

	AddMenuItem(ctx context.Context, input AddMenuItemInput) (*MenuItem, error)
	ListItems(ctx context.Context, menuCode string) ([]*MenuItem, error)

	ResolveNavigation(ctx context.Context, menuCode string, pathInfo string) ([]NavigationNode, error)
	DeepestExpandedItem(ctx context.Context, menuCode string, pathInfo string) (*ExpandedItem, error)
	ResolveURL(ctx context.Context, menuCode string, item *MenuItem) (string, error)
	InvalidateCache(ctx context.Context) error
}

// CreateMenuInput captures the information required to register a menu.
type CreateMenuInput struct {
	Code        string
	Location    string
	Description *string
}

// AddMenuItemInput captures the data required to register a new menu item.
type AddMenuItemInput struct {
	ID *uuid.UUID
	// MenuID or MenuCode identifies the owning menu; MenuID wins when both are set.
	MenuID   uuid.UUID
	MenuCode string
	ParentID *uuid.UUID
	// ParentCode references the parent by external code when its UUID is not known.
	ParentCode   string
	ExternalCode string
	Label        string
	Target       map[string]any
	// Position is a 0-based index among siblings. Nil appends.
	Position *int
}

var (
	ErrMenuCodeRequired           = errors.New("menus: code is required")
	ErrMenuCodeInvalid            = errors.New("menus: code must contain only letters, numbers, hyphen, or underscore")
	ErrMenuCodeExists             = errors.New("menus: code already exists")
	ErrMenuNotFound               = errors.New("menus: menu not found")
	ErrMenuItemNotFound           = errors.New("menus: menu item not found")
	ErrMenuItemParentInvalid      = errors.New("menus: parent menu item invalid")
	ErrMenuItemLabelRequired      = errors.New("menus: label is required")
	ErrMenuItemPosition           = errors.New("menus: position must be zero or positive")
	ErrMenuItemExternalCodeExists = errors.New("menus: external code already exists in menu")
)

// ServiceOption configures menu service behaviour.
type ServiceOption func(*service)

// WithClock overrides the internal time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the random identifier source.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithDeterministicIDs derives menu and item IDs from their codes so repeated
// seeding produces the same records.
func WithDeterministicIDs(enabled bool) ServiceOption {
	return func(s *service) {
		s.deterministicIDs = enabled
	}
}

// WithURLResolver overrides how menu URLs are generated.
func WithURLResolver(resolver URLResolver) ServiceOption {
	return func(s *service) {
		if resolver != nil {
			s.urlResolver = resolver
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	menus            MenuRepository
	items            MenuItemRepository
	now              func() time.Time
	newID            func() uuid.UUID
	deterministicIDs bool
	urlResolver      URLResolver
	logger           interfaces.Logger
}

type cacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// NewService constructs a menu service instance.
func NewService(menuRepo MenuRepository, itemRepo MenuItemRepository, opts ...ServiceOption) Service {
	s := &service{
		menus:       menuRepo,
		items:       itemRepo,
		now:         time.Now,
		newID:       uuid.New,
		urlResolver: PathURLResolver{},
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMenu registers a new menu ensuring code uniqueness.
func (s *service) CreateMenu(ctx context.Context, input CreateMenuInput) (*Menu, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, ErrMenuCodeRequired
	}
	if !isValidCode(code) {
		return nil, ErrMenuCodeInvalid
	}

	if _, err := s.menus.GetByCode(ctx, code); err == nil {
		return nil, ErrMenuCodeExists
	} else if !isNotFound(err) {
		return nil, err
	}

	menuID := s.nextID()
	if s.deterministicIDs {
		menuID = identity.MenuUUID(code)
	}
	now := s.now()
	created, err := s.menus.Create(ctx, &Menu{
		ID:          menuID,
		Code:        code,
		Location:    strings.TrimSpace(input.Location),
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("menus.menu.created", "menu", created.Code, "menu_id", created.ID)
	return created, nil
}

// GetOrCreateMenu returns an existing menu for the code or creates it.
func (s *service) GetOrCreateMenu(ctx context.Context, input CreateMenuInput) (*Menu, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, ErrMenuCodeRequired
	}
	existing, err := s.menus.GetByCode(ctx, code)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return s.CreateMenu(ctx, input)
}

// GetMenuByCode returns the menu with its item tree attached.
func (s *service) GetMenuByCode(ctx context.Context, code string) (*Menu, error) {
	menu, err := s.menus.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	items, err := s.items.ListByMenu(ctx, menu.ID)
	if err != nil {
		return nil, err
	}
	menu.Items = buildHierarchy(items)
	return menu, nil
}

func (s *service) ListMenus(ctx context.Context) ([]*Menu, error) {
	return s.menus.List(ctx)
}

// DeleteMenu removes the menu and all of its items.
func (s *service) DeleteMenu(ctx context.Context, code string) error {
	menu, err := s.menus.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if isNotFound(err) {
			return ErrMenuNotFound
		}
		return err
	}
	items, err := s.items.ListByMenu(ctx, menu.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.items.Delete(ctx, item.ID); err != nil && !isNotFound(err) {
			return err
		}
	}
	return s.menus.Delete(ctx, menu.ID)
}

// AddMenuItem validates and stores a new item, shifting later siblings when
// a position is requested.
func (s *service) AddMenuItem(ctx context.Context, input AddMenuItemInput) (*MenuItem, error) {
	menu, err := s.lookupMenu(ctx, input)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, ErrMenuItemLabelRequired
	}
	if input.Position != nil && *input.Position < 0 {
		return nil, ErrMenuItemPosition
	}

	externalCode := strings.TrimSpace(input.ExternalCode)
	if externalCode != "" {
		if _, err := s.items.GetByMenuAndExternalCode(ctx, menu.ID, externalCode); err == nil {
			return nil, ErrMenuItemExternalCodeExists
		} else if !isNotFound(err) {
			return nil, err
		}
	}

	parentID, err := s.resolveParent(ctx, menu.ID, input)
	if err != nil {
		return nil, err
	}

	existing, err := s.items.ListByMenu(ctx, menu.ID)
	if err != nil {
		return nil, err
	}
	siblings := siblingsOf(existing, parentID)
	position := len(siblings)
	if input.Position != nil && *input.Position < position {
		position = *input.Position
	}

	itemID := s.nextID()
	switch {
	case input.ID != nil && *input.ID != uuid.Nil:
		itemID = *input.ID
	case s.deterministicIDs && externalCode != "":
		itemID = identity.MenuItemUUID(menu.ID, externalCode)
	}

	now := s.now()
	if err := s.shiftSiblings(ctx, siblings, position, now); err != nil {
		return nil, err
	}

	created, err := s.items.Create(ctx, &MenuItem{
		ID:           itemID,
		MenuID:       menu.ID,
		ParentID:     parentID,
		ExternalCode: externalCode,
		Position:     position,
		Label:        label,
		Target:       normalizeTarget(input.Target),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("menus.item.created",
		"menu", menu.Code,
		"item_id", created.ID,
		"label", created.Label,
		"position", created.Position,
	)
	return created, nil
}

// ListItems returns the menu's items as a tree ordered by position.
func (s *service) ListItems(ctx context.Context, menuCode string) ([]*MenuItem, error) {
	menu, err := s.GetMenuByCode(ctx, menuCode)
	if err != nil {
		return nil, err
	}
	return menu.Items, nil
}

// ResolveNavigation renders the menu tree for a request path, marking the
// selected and expanded items.
func (s *service) ResolveNavigation(ctx context.Context, menuCode string, pathInfo string) ([]NavigationNode, error) {
	menu, err := s.GetMenuByCode(ctx, menuCode)
	if err != nil {
		return nil, err
	}
	request := NormalizePath(pathInfo)
	nodes := make([]NavigationNode, 0, len(menu.Items))
	for _, item := range menu.Items {
		node, err := s.buildNavigationNode(ctx, menu.Code, item, request, 0)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// DeepestExpandedItem returns the most specific expanded item for the path,
// or nil when nothing in the menu is expanded.
func (s *service) DeepestExpandedItem(ctx context.Context, menuCode string, pathInfo string) (*ExpandedItem, error) {
	menu, err := s.GetMenuByCode(ctx, menuCode)
	if err != nil {
		return nil, err
	}
	request := NormalizePath(pathInfo)

	var (
		best      []*MenuItem
		bestScore expansionScore
	)
	walkItems(menu.Items, nil, func(item *MenuItem, chain []*MenuItem) {
		itemPath := ItemPath(item)
		if !IsExpanded(itemPath, request) {
			return
		}
		score := expansionScore{segments: segmentCount(itemPath), depth: len(chain)}
		if best == nil || score.beats(bestScore) {
			best = slices.Clone(chain)
			bestScore = score
		}
	})
	if best == nil {
		s.logger.Debug("menus.navigation.no_expanded_item", "menu", menu.Code, "path", request)
		return nil, nil
	}

	var expanded *ExpandedItem
	for _, item := range best {
		url, err := s.ResolveURL(ctx, menu.Code, item)
		if err != nil {
			return nil, err
		}
		expanded = &ExpandedItem{
			Item:     item,
			MenuCode: menu.Code,
			Label:    item.Label,
			Path:     ItemPath(item),
			URL:      url,
			Selected: ItemPath(item) != "" && ItemPath(item) == request,
			Parent:   expanded,
		}
	}
	return expanded, nil
}

// ResolveURL renders the item URL through the configured URL resolver.
func (s *service) ResolveURL(ctx context.Context, menuCode string, item *MenuItem) (string, error) {
	if item == nil {
		return "", nil
	}
	return s.urlResolver.Resolve(ctx, ResolveRequest{MenuCode: menuCode, Item: item})
}

func (s *service) InvalidateCache(ctx context.Context) error {
	var errs []error
	if invalidator, ok := s.menus.(cacheInvalidator); ok {
		if err := invalidator.InvalidateCache(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if invalidator, ok := s.items.(cacheInvalidator); ok {
		if err := invalidator.InvalidateCache(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *service) buildNavigationNode(ctx context.Context, menuCode string, item *MenuItem, request string, depth int) (NavigationNode, error) {
	url, err := s.ResolveURL(ctx, menuCode, item)
	if err != nil {
		return NavigationNode{}, err
	}
	itemPath := ItemPath(item)
	node := NavigationNode{
		ID:       item.ID,
		Label:    item.Label,
		URL:      url,
		Path:     itemPath,
		Position: item.Position,
		Selected: itemPath != "" && itemPath == request,
		Expanded: IsExpanded(itemPath, request),
	}
	if len(item.Children) > 0 && depth < maxTreeDepth {
		node.Children = make([]NavigationNode, 0, len(item.Children))
		for _, child := range item.Children {
			childNode, err := s.buildNavigationNode(ctx, menuCode, child, request, depth+1)
			if err != nil {
				return NavigationNode{}, err
			}
			node.Children = append(node.Children, childNode)
		}
	}
	return node, nil
}

func (s *service) lookupMenu(ctx context.Context, input AddMenuItemInput) (*Menu, error) {
	var (
		menu *Menu
		err  error
	)
	if input.MenuID != uuid.Nil {
		menu, err = s.menus.GetByID(ctx, input.MenuID)
	} else {
		menu, err = s.menus.GetByCode(ctx, strings.TrimSpace(input.MenuCode))
	}
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	return menu, nil
}

func (s *service) resolveParent(ctx context.Context, menuID uuid.UUID, input AddMenuItemInput) (*uuid.UUID, error) {
	var parent *MenuItem
	switch {
	case input.ParentID != nil && *input.ParentID != uuid.Nil:
		record, err := s.items.GetByID(ctx, *input.ParentID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrMenuItemParentInvalid
			}
			return nil, err
		}
		parent = record
	case strings.TrimSpace(input.ParentCode) != "":
		record, err := s.items.GetByMenuAndExternalCode(ctx, menuID, strings.TrimSpace(input.ParentCode))
		if err != nil {
			if isNotFound(err) {
				return nil, ErrMenuItemParentInvalid
			}
			return nil, err
		}
		parent = record
	default:
		return nil, nil
	}
	if parent.MenuID != menuID {
		return nil, ErrMenuItemParentInvalid
	}
	id := parent.ID
	return &id, nil
}

// shiftSiblings moves every sibling at or after position one slot down.
func (s *service) shiftSiblings(ctx context.Context, siblings []*MenuItem, position int, now time.Time) error {
	for _, sibling := range siblings {
		if sibling.Position < position {
			continue
		}
		moved := cloneMenuItem(sibling)
		moved.Position++
		moved.UpdatedAt = now
		if _, err := s.items.Update(ctx, moved); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) nextID() uuid.UUID {
	if s.newID == nil {
		return uuid.New()
	}
	if id := s.newID(); id != uuid.Nil {
		return id
	}
	return uuid.New()
}

func siblingsOf(items []*MenuItem, parentID *uuid.UUID) []*MenuItem {
	siblings := make([]*MenuItem, 0, len(items))
	for _, item := range items {
		if parentKey(item.ParentID) == parentKey(parentID) {
			siblings = append(siblings, item)
		}
	}
	slices.SortStableFunc(siblings, func(a, b *MenuItem) int {
		return a.Position - b.Position
	})
	return siblings
}

func buildHierarchy(items []*MenuItem) []*MenuItem {
	byID := make(map[uuid.UUID]*MenuItem, len(items))
	children := make(map[string][]*MenuItem, len(items))

	for _, item := range items {
		clone := cloneMenuItem(item)
		byID[item.ID] = clone
		key := parentKey(item.ParentID)
		children[key] = append(children[key], clone)
	}

	byPosition := func(a, b *MenuItem) int { return a.Position - b.Position }
	for _, item := range byID {
		if kids, ok := children[parentKey(&item.ID)]; ok {
			slices.SortStableFunc(kids, byPosition)
			item.Children = kids
		}
	}

	root := children[parentKey(nil)]
	// Items whose parent vanished are surfaced at the root.
	for _, item := range items {
		if item.ParentID != nil {
			if _, ok := byID[*item.ParentID]; !ok {
				root = append(root, byID[item.ID])
			}
		}
	}
	slices.SortStableFunc(root, byPosition)
	return root
}

func parentKey(id *uuid.UUID) string {
	if id == nil {
		return "root"
	}
	return id.String()
}

func normalizeTarget(raw map[string]any) map[string]any {
	target := make(map[string]any, len(raw))
	maps.Copy(target, raw)
	if path, ok := target[TargetPath].(string); ok {
		target[TargetPath] = NormalizePath(path)
	}
	return target
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

func isValidCode(code string) bool {
	for _, r := range code {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' ||
			r == '_' {
			continue
		}
		return false
	}
	return true
}
