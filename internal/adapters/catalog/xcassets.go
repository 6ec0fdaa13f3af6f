package catalog

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
	"github.com/kamal-hamza/imgcheck/pkg/walker"
)

// ImageSetSuffix marks an image container inside an asset catalog
const ImageSetSuffix = ".imageset"

// Scanner reads image asset names from an .xcassets directory tree
type Scanner struct {
	suffixes []string
	logger   *slog.Logger
}

// NewScanner creates a scanner recognising the given container suffixes.
// With no suffixes only ".imageset" containers are reported.
func NewScanner(logger *slog.Logger, suffixes ...string) *Scanner {
	if len(suffixes) == 0 {
		suffixes = []string{ImageSetSuffix}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		suffixes: suffixes,
		logger:   logger,
	}
}

// CollectAssetNames walks root and returns the sorted set of asset names.
// Hidden entries are skipped. Sub-paths that cannot be read are ignored, and
// an unreadable root yields an empty set.
func (s *Scanner) CollectAssetNames(ctx context.Context, root string) ([]domain.AssetName, error) {
	seen := make(map[domain.AssetName]struct{})

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.logger.Debug("skipping unreadable catalog path", "path", path, "error", err)
			if path == root {
				return fs.SkipAll
			}
			return nil
		}
		if path == root {
			return nil
		}
		if walker.IsHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if name, ok := s.assetName(d.Name()); ok {
			seen[name] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	names := make([]domain.AssetName, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names, nil
}

// assetName strips a container suffix from a directory name
func (s *Scanner) assetName(dirName string) (domain.AssetName, bool) {
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(dirName, suffix) && len(dirName) > len(suffix) {
			return domain.AssetName(strings.TrimSuffix(dirName, suffix)), true
		}
	}
	return "", false
}
