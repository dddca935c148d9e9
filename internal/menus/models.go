package menus

import bcmenus "github.com/goliatone/go-breadcrumb/menus"

type (
	Menu     = bcmenus.Menu
	MenuItem = bcmenus.MenuItem
)

const (
	TargetPath    = bcmenus.TargetPath
	TargetContent = bcmenus.TargetContent
	TargetRoute   = bcmenus.TargetRoute
	TargetParams  = bcmenus.TargetParams
	TargetQuery   = bcmenus.TargetQuery
	TargetURL     = bcmenus.TargetURL
)
