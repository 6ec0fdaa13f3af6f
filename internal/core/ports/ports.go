package ports

import (
	"context"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
)

// CatalogScanner defines the port for reading declared image assets
type CatalogScanner interface {
	// CollectAssetNames returns the sorted, de-duplicated asset names under root.
	// An unreadable root yields an empty result, not an error.
	CollectAssetNames(ctx context.Context, root string) ([]domain.AssetName, error)
}

// UsageCounter defines the port for counting references in a project tree
type UsageCounter interface {
	// Count returns the number of files under root containing the identifier's
	// reference pattern. A root that cannot be listed is an error.
	Count(ctx context.Context, id domain.Identifier, root string, filter domain.ExtensionFilter) (domain.UsageCount, error)
}

// Reporter receives progress while a report is being built.
// The report service makes every call from the goroutine running Run, and
// reports entries in catalog order whatever the worker count.
type Reporter interface {
	// AssetFound is called once per asset declared in the catalog
	AssetFound(name domain.AssetName)

	// CatalogScanned is called after the catalog, before any project scan
	CatalogScanned(total int)

	// FileMatched is called for every file referencing an identifier
	FileMatched(id domain.Identifier, path string)

	// EntryReady is called once an asset has been classified
	EntryReady(entry domain.UsageEntry)
}
