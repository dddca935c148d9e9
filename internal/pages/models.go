package pages

import bcpages "github.com/goliatone/go-breadcrumb/pages"

type (
	Page = bcpages.Page
	Kind = bcpages.Kind
)

const (
	KindFolder   = bcpages.KindFolder
	KindDocument = bcpages.KindDocument
)
