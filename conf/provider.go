package conf

import (
	"errors"
	"fmt"
	"maps"
	"sync"
)

var (
	ErrUnresolved      = errors.New("value was never supplied and has no default")
	ErrAlreadyResolved = errors.New("value is already resolved")
)

// Provider holds a value that may only become known after the pipeline has
// been constructed. Reading it requires an explicit Resolve.
type Provider[T any] interface {
	Resolve() (T, error)
	IsResolved() bool
	String() string
}

// ParseFunc converts the raw text of a flag, template entry or environment
// variable into a typed value.
type ParseFunc[T any] func(raw string) (T, error)

// Static is a Provider whose value is known at construction time.
type Static[T any] struct {
	value T
}

func StaticValue[T any](value T) *Static[T] {
	return &Static[T]{value: clone(value)}
}

func (s *Static[T]) Resolve() (T, error) {
	return clone(s.value), nil
}

func (s *Static[T]) IsResolved() bool {
	return true
}

func (s *Static[T]) String() string {
	return fmt.Sprintf("StaticValue(%v)", s.value)
}

// Runtime is a Provider supplied after construction, typically by the
// launcher from a flag, a job template or the environment. The first
// successful Resolve freezes the value.
type Runtime[T any] struct {
	name  string
	parse ParseFunc[T]

	mu       sync.Mutex
	value    T
	supplied bool
	def      *T
	frozen   bool
}

type RuntimeOption[T any] func(*Runtime[T])

// WithDefault sets the value returned by Resolve when nothing was supplied.
func WithDefault[T any](value T) RuntimeOption[T] {
	return func(r *Runtime[T]) {
		v := clone(value)
		r.def = &v
	}
}

func RuntimeValue[T any](name string, parse ParseFunc[T], opts ...RuntimeOption[T]) *Runtime[T] {
	r := &Runtime[T]{name: name, parse: parse}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name is the parameter name used in templates and error messages.
func (r *Runtime[T]) Name() string {
	return r.name
}

// Supply parses raw and stores it as the value.
func (r *Runtime[T]) Supply(raw string) error {
	if r.parse == nil {
		return fmt.Errorf("%s: no parser for raw values", r.name)
	}
	v, err := r.parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", r.name, err)
	}
	return r.SupplyValue(v)
}

// SupplyValue stores v as the value. A value can be replaced until it has
// been resolved.
func (r *Runtime[T]) SupplyValue(v T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("%s: %w", r.name, ErrAlreadyResolved)
	}
	r.value = clone(v)
	r.supplied = true
	return nil
}

// Supplied reports whether a value was given explicitly, ignoring defaults.
func (r *Runtime[T]) Supplied() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.supplied
}

// peek returns the supplied value or the default without freezing.
func (r *Runtime[T]) peek() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.frozen || r.supplied:
		return clone(r.value), true
	case r.def != nil:
		return clone(*r.def), true
	}
	var zero T
	return zero, false
}

func (r *Runtime[T]) Resolve() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return clone(r.value), nil
	}
	switch {
	case r.supplied:
	case r.def != nil:
		r.value = clone(*r.def)
	default:
		var zero T
		return zero, fmt.Errorf("%s: %w", r.name, ErrUnresolved)
	}
	r.frozen = true
	return clone(r.value), nil
}

// IsResolved reports whether Resolve would succeed right now.
func (r *Runtime[T]) IsResolved() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frozen || r.supplied || r.def != nil
}

func (r *Runtime[T]) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.frozen || r.supplied:
		return fmt.Sprintf("RuntimeValue{name=%s, value=%v}", r.name, r.value)
	case r.def != nil:
		return fmt.Sprintf("RuntimeValue{name=%s, default=%v}", r.name, *r.def)
	default:
		return fmt.Sprintf("RuntimeValue{name=%s}", r.name)
	}
}

// Nested resolves an underlying provider and transforms its value.
type Nested[S, T any] struct {
	src Provider[S]
	fn  func(S) (T, error)

	once  sync.Once
	value T
	err   error
}

func Derived[S, T any](src Provider[S], fn func(S) (T, error)) *Nested[S, T] {
	return &Nested[S, T]{src: src, fn: fn}
}

func (n *Nested[S, T]) Resolve() (T, error) {
	if !n.src.IsResolved() {
		var zero T
		_, err := n.src.Resolve()
		return zero, err
	}
	n.once.Do(func() {
		var s S
		s, n.err = n.src.Resolve()
		if n.err == nil {
			n.value, n.err = n.fn(s)
		}
	})
	return clone(n.value), n.err
}

func (n *Nested[S, T]) IsResolved() bool {
	return n.src.IsResolved()
}

func (n *Nested[S, T]) String() string {
	return fmt.Sprintf("NestedValue{%s}", n.src)
}

// Unset returns a holder that is never resolved. Getters on a zero Options
// hand these out instead of nil.
func Unset[T any](name string) *Runtime[T] {
	return RuntimeValue[T](name, nil)
}

// clone copies map values so that callers mutating a resolved value cannot
// change what later reads see.
func clone[T any](v T) T {
	switch m := any(v).(type) {
	case map[string]float64:
		return any(maps.Clone(m)).(T)
	case map[string]string:
		return any(maps.Clone(m)).(T)
	}
	return v
}
