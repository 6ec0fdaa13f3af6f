package services

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
	"github.com/kamal-hamza/imgcheck/pkg/walker"
)

// UsageService counts the project files that reference an identifier
type UsageService struct {
	logger  *slog.Logger
	exclude []string
}

// NewUsageService creates a new usage service. Project paths matching one
// of the exclude patterns are never scanned.
func NewUsageService(logger *slog.Logger, exclude ...string) *UsageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UsageService{
		logger:  logger,
		exclude: exclude,
	}
}

// Count walks root recursively and counts files whose content contains
// ".<identifier>". A file counts once no matter how often the pattern
// appears in it. Files that cannot be read as text are skipped.
func (s *UsageService) Count(ctx context.Context, id domain.Identifier, root string, filter domain.ExtensionFilter) (domain.UsageCount, error) {
	pattern := []byte(id.Pattern())
	var result domain.UsageCount

	for path, err := range walker.Walk(root, walker.Options{
		Extensions: filter,
		Recursive:  true,
		Exclude:    s.exclude,
	}) {
		if err != nil {
			return domain.UsageCount{}, err
		}
		if err := ctx.Err(); err != nil {
			return domain.UsageCount{}, err
		}

		if s.scanFile(path, pattern) {
			result.Count++
			result.Files = append(result.Files, path)
		}
	}

	return result, nil
}

// scanFile reports whether the file at path contains pattern
func (s *UsageService) scanFile(path string, pattern []byte) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		s.logger.Debug("skipping unreadable file", "path", path, "error", err)
		return false
	}
	if !utf8.Valid(content) {
		s.logger.Debug("skipping non-text file", "path", path)
		return false
	}
	return bytes.Contains(content, pattern)
}
