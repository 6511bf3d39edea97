package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tordrt/schemaforge/internal/schema"
)

// Memory keeps projects in process, keyed by name. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	projects map[string]*schema.Project
}

// NewMemory creates a provider holding the given projects under their names
func NewMemory(projects ...*schema.Project) *Memory {
	m := &Memory{projects: make(map[string]*schema.Project)}
	for _, p := range projects {
		m.Put(p.Name, p)
	}
	return m
}

// Put stores a project, replacing any previous one under ref
func (m *Memory) Put(ref string, p *schema.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.projects == nil {
		m.projects = make(map[string]*schema.Project)
	}
	m.projects[ref] = p
}

// Delete removes a project and reports whether it existed
func (m *Memory) Delete(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.projects[ref]
	delete(m.projects, ref)
	return ok
}

// List returns the stored references in sorted order
func (m *Memory) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	refs := make([]string, 0, len(m.projects))
	for ref := range m.projects {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// LoadProject implements SchemaProvider
func (m *Memory) LoadProject(ctx context.Context, ref string) (*schema.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return p, nil
}
