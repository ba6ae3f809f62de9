package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Index maps discipline codes to their records.
type Index struct {
	mu     sync.RWMutex
	byCode map[string]*Discipline
	sealed bool
}

// NewIndex creates an empty, unsealed index.
func NewIndex() *Index {
	return &Index{
		byCode: make(map[string]*Discipline),
	}
}

// Merge adds a shard's disciplines to the index. A code that is already
// present with identical content is kept once; with differing content Merge
// fails with an *IntegrityError and leaves the index unchanged.
func (ix *Index) Merge(disciplines []*Discipline) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.sealed {
		return ErrSealed
	}

	// Validate the whole shard first so a failed merge adds nothing.
	pending := make(map[string]*Discipline, len(disciplines))
	for _, d := range disciplines {
		existing, ok := ix.byCode[d.Code]
		if !ok {
			existing, ok = pending[d.Code]
		}
		if ok {
			if !existing.SameContent(d) {
				return &IntegrityError{Code: d.Code, Groups: []string{existing.Group, d.Group}}
			}
			continue
		}
		pending[d.Code] = d
	}

	for code, d := range pending {
		ix.byCode[code] = d
	}
	return nil
}

// Seal marks the end of the merge phase.
func (ix *Index) Seal() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.sealed = true
}

// Sealed reports whether the merge phase is over.
func (ix *Index) Sealed() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.sealed
}

// Get looks up a discipline by code.
func (ix *Index) Get(code string) (*Discipline, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	d, ok := ix.byCode[code]
	return d, ok
}

// Len returns the number of disciplines.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byCode)
}

// All returns every discipline sorted by code.
func (ix *Index) All() []*Discipline {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	all := make([]*Discipline, 0, len(ix.byCode))
	for _, d := range ix.byCode {
		all = append(all, d)
	}
	slices.SortFunc(all, func(a, b *Discipline) int {
		return strings.Compare(a.Code, b.Code)
	})
	return all
}

// Groups returns the disciplines partitioned by their catalog group, each
// partition sorted by code, along with the sorted group names.
func (ix *Index) Groups() ([]string, map[string][]*Discipline) {
	byGroup := make(map[string][]*Discipline)
	for _, d := range ix.All() {
		byGroup[d.Group] = append(byGroup[d.Group], d)
	}

	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, byGroup
}

// String returns a short description used in logs.
func (ix *Index) String() string {
	return fmt.Sprintf("catalog.Index{disciplines: %d, sealed: %t}", ix.Len(), ix.Sealed())
}
