package tactic

import (
	"sort"
	"strings"
	"sync"

	"github.com/tactic-labs/tactic/internal/kernel"
	"github.com/tactic-labs/tactic/internal/term"
)

// Registry holds named theorems and function definitions so tactics such as
// Unfold and Search can find them. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	thms  map[string]*kernel.Proof
	defns map[string]*term.FuncDecl
}

func NewRegistry() *Registry {
	return &Registry{
		thms:  make(map[string]*kernel.Proof),
		defns: make(map[string]*term.FuncDecl),
	}
}

// Register stores a proved theorem under name, replacing any previous entry.
func (r *Registry) Register(name string, pf *kernel.Proof) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.thms[name] = pf
}

// Lookup returns the theorem registered under name, if any.
func (r *Registry) Lookup(name string) (*kernel.Proof, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pf, ok := r.thms[name]
	return pf, ok
}

func (r *Registry) registerDefn(d *term.FuncDecl) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defns[d.Name] = d
}

// Defns returns all registered definitions, sorted by name.
func (r *Registry) Defns() []*term.FuncDecl {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*term.FuncDecl, 0, len(r.defns))
	for _, d := range r.defns {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Defn returns the registered definition for a function name, if any.
func (r *Registry) Defn(name string) (*term.FuncDecl, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defns[name]
	return d, ok
}

// Search returns the names of registered theorems whose name or statement
// contains every query token, sorted for stable output.
func (r *Registry) Search(query string) []string {
	tokens := strings.Fields(strings.ToLower(query))
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for name, pf := range r.thms {
		hay := strings.ToLower(name + " " + pf.Thm().String())
		ok := true
		for _, tok := range tokens {
			if !strings.Contains(hay, tok) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
