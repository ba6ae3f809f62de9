// Package testutil holds helpers shared by package tests: a log capture
// buffer and an in-memory page source provider with controllable failures.
package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/specialistvlad/reqgraph/internal/curriculum"
	"github.com/specialistvlad/reqgraph/internal/source"
)

// FakeProvider is an in-memory source.Provider and source.CourseProvider.
type FakeProvider struct {
	// Shards maps group keys to the fragments returned for them.
	Shards map[string][]source.Fragment
	// Errs makes Disciplines fail for the given groups.
	Errs map[string]error
	// Block makes Disciplines wait for context cancellation for the given groups.
	Block map[string]bool
	// CourseList is returned by Courses.
	CourseList []curriculum.Course
	// GroupsErr makes Groups fail.
	GroupsErr error

	mu      sync.Mutex
	fetched []string
}

// Groups returns the sorted shard keys.
func (p *FakeProvider) Groups(ctx context.Context) ([]string, error) {
	if p.GroupsErr != nil {
		return nil, p.GroupsErr
	}
	groups := make([]string, 0, len(p.Shards))
	for g := range p.Shards {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups, nil
}

// Disciplines returns the configured fragments for group.
func (p *FakeProvider) Disciplines(ctx context.Context, group string) ([]source.Fragment, error) {
	p.mu.Lock()
	p.fetched = append(p.fetched, group)
	p.mu.Unlock()

	if p.Block[group] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := p.Errs[group]; ok {
		return nil, err
	}
	return slices.Clone(p.Shards[group]), nil
}

// Courses returns CourseList.
func (p *FakeProvider) Courses(ctx context.Context) ([]curriculum.Course, error) {
	return p.CourseList, nil
}

// Fetched returns the groups requested so far, in call order.
func (p *FakeProvider) Fetched() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.fetched)
}

// Frag builds a fragment; an empty reqs string means no requirements.
func Frag(code, name, reqs string) source.Fragment {
	f := source.Fragment{Code: code, Name: name}
	if reqs != "" {
		f.Requirements = &reqs
	}
	return f
}
