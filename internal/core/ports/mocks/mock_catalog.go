package mocks

import (
	"context"
	"sort"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
)

// MockCatalogScanner returns a fixed set of asset names
type MockCatalogScanner struct {
	Names []domain.AssetName
	Err   error

	// Roots records every root passed to CollectAssetNames
	Roots []string
}

// NewMockCatalogScanner creates a scanner returning names in sorted order
func NewMockCatalogScanner(names ...domain.AssetName) *MockCatalogScanner {
	return &MockCatalogScanner{Names: names}
}

func (m *MockCatalogScanner) CollectAssetNames(ctx context.Context, root string) ([]domain.AssetName, error) {
	m.Roots = append(m.Roots, root)
	if m.Err != nil {
		return nil, m.Err
	}
	out := append([]domain.AssetName(nil), m.Names...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
