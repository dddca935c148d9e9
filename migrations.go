package breadcrumb

import (
	"io/fs"

	"github.com/goliatone/go-breadcrumb/internal/storage"
)

// GetMigrationsFS returns the embedded SQL migrations for the menu and page
// tables.
func GetMigrationsFS() fs.FS {
	return storage.MigrationsFS()
}
