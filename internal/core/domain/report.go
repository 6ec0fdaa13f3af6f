package domain

import (
	"sort"
	"time"
)

// Verdict is the outcome of comparing an occurrence count to the threshold
type Verdict string

const (
	VerdictUsed   Verdict = "used"
	VerdictUnused Verdict = "unused"
)

// Classify returns VerdictUnused when count is less than or equal to threshold.
// A count equal to the threshold is therefore reported as unused.
func Classify(count, threshold int) Verdict {
	if count <= threshold {
		return VerdictUnused
	}
	return VerdictUsed
}

// UsageCount is the result of scanning a project tree for one identifier
type UsageCount struct {
	Count int
	Files []string
}

// UsageEntry is the per-asset line of a report
type UsageEntry struct {
	Name       AssetName  `json:"name"`
	Identifier Identifier `json:"identifier"`
	Count      int        `json:"count"`
	Verdict    Verdict    `json:"verdict"`
	Files      []string   `json:"files,omitempty"`
}

// IsUnused is a shorthand for Verdict == VerdictUnused
func (e UsageEntry) IsUnused() bool {
	return e.Verdict == VerdictUnused
}

// Report is the result of a full run
type Report struct {
	CatalogPath string
	ProjectPath string
	Threshold   int
	Extensions  ExtensionFilter
	Entries     []UsageEntry
	Duration    time.Duration
}

// SortEntries orders entries by asset name
func (r *Report) SortEntries() {
	sort.Slice(r.Entries, func(i, j int) bool {
		return r.Entries[i].Name < r.Entries[j].Name
	})
}

// Unused returns the entries flagged as unused, in report order
func (r *Report) Unused() []UsageEntry {
	var unused []UsageEntry
	for _, e := range r.Entries {
		if e.IsUnused() {
			unused = append(unused, e)
		}
	}
	return unused
}

// UnusedCount returns the number of unused entries
func (r *Report) UnusedCount() int {
	n := 0
	for _, e := range r.Entries {
		if e.IsUnused() {
			n++
		}
	}
	return n
}

// UnusedNames returns the raw asset names of unused entries
func (r *Report) UnusedNames() []string {
	var names []string
	for _, e := range r.Unused() {
		names = append(names, string(e.Name))
	}
	return names
}
