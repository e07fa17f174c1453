package ops

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps operation names to entries.
//
// A Registry is safe for concurrent use. Entries are never removed, so an
// *Op obtained from Lookup stays valid for the life of the process.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]*Op
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]*Op)}
}

// Register adds an entry. It fails if the entry is malformed or the name is
// already taken.
func (r *Registry) Register(op *Op) error {
	if op == nil {
		return fmt.Errorf("ops: nil operation")
	}
	if err := op.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[op.Name]; exists {
		return fmt.Errorf("ops: %q already registered", op.Name)
	}
	r.ops[op.Name] = op
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(ops ...*Op) {
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Op, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var builtin = NewRegistry()

func init() {
	builtin.MustRegister(
		Add, Sub, Mul, Div, Pow, Neg,
		Lt, Gt, Le, Ge,
		Sin, Cos, Tan, Arcsin, Arccos, Arctan,
		Sinh, Cosh, Tanh, Logistic,
		Exp, Log, Sqrt,
	)
}

// Default returns the process-wide registry holding the builtin catalog.
// Functions registered here become callable by name from every builder.
func Default() *Registry {
	return builtin
}
