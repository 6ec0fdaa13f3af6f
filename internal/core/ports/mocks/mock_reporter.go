package mocks

import (
	"sync"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
)

// MockReporter records every progress callback for assertions
type MockReporter struct {
	mu      sync.Mutex
	Assets  []domain.AssetName
	Total   int
	Matches map[domain.Identifier][]string
	Entries []domain.UsageEntry

	// Calls logs FileMatched and EntryReady as "match:<id>" / "entry:<id>"
	Calls []string
}

// NewMockReporter creates an empty recording reporter
func NewMockReporter() *MockReporter {
	return &MockReporter{
		Matches: make(map[domain.Identifier][]string),
	}
}

func (m *MockReporter) AssetFound(name domain.AssetName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Assets = append(m.Assets, name)
}

func (m *MockReporter) CatalogScanned(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Total = total
}

func (m *MockReporter) FileMatched(id domain.Identifier, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Matches[id] = append(m.Matches[id], path)
	m.Calls = append(m.Calls, "match:"+string(id))
}

func (m *MockReporter) EntryReady(entry domain.UsageEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	m.Calls = append(m.Calls, "entry:"+string(entry.Identifier))
}
