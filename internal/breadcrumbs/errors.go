package breadcrumbs

import "errors"

var (
	ErrMenuNotFound            = errors.New("breadcrumbs: menu not found")
	ErrInvalidParameters       = errors.New("breadcrumbs: invalid parameters")
	ErrInvalidLinkNotFoundMode = errors.New("breadcrumbs: link not found mode must be hide or unlink")
	ErrMenuResolverRequired    = errors.New("breadcrumbs: menu resolver is required")
	ErrContentResolverRequired = errors.New("breadcrumbs: content resolver is required")
	ErrLinkResolverRequired    = errors.New("breadcrumbs: link resolver is required")
)

const menuNotFoundTextCode = "BREADCRUMB_MENU_NOT_FOUND"
