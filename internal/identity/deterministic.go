package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-breadcrumb"

// UUID derives a deterministic UUID from a stable key using go-hashid. Keys
// must be prefixed by entity kind so two kinds never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// MenuUUID is stable for a menu code.
func MenuUUID(code string) uuid.UUID {
	return UUID(namespace + ":menu:" + strings.TrimSpace(code))
}

// MenuItemUUID is stable for an item's external code within a menu.
func MenuItemUUID(menuID uuid.UUID, externalCode string) uuid.UUID {
	return UUID(namespace + ":menu_item:" + menuID.String() + ":" + strings.TrimSpace(externalCode))
}

// PageUUID is stable for a content path.
func PageUUID(path string) uuid.UUID {
	return UUID(namespace + ":page:" + strings.ToLower(strings.TrimSpace(path)))
}
