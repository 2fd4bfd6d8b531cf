// Package registry implements an executor-side owner of named channels, of
// mixed element types, optionally declared by a YAML config.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/qjpcpu/condchan"
	"golang.org/x/sync/errgroup"
)

var elemTypes = map[string]func(capacity int, opts ...condchan.Option) *condchan.Holder{
	"int":     condchan.NewHolder[int],
	"int64":   condchan.NewHolder[int64],
	"float64": condchan.NewHolder[float64],
	"string":  condchan.NewHolder[string],
	"bytes":   condchan.NewHolder[[]byte],
	"any":     condchan.NewHolder[any],
}

// ElemTypes returns the element type names accepted by ChannelConfig.Type.
func ElemTypes() []string {
	names := make([]string, 0, len(elemTypes))
	for name := range elemTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type (
	// Registry owns a set of named channels. It is safe for concurrent use.
	Registry struct {
		logger  *logiface.Logger[logiface.Event]
		mu      sync.RWMutex
		holders map[string]*condchan.Holder
	}

	Option func(r *Registry)
)

// WithLogger sets the logger used by the registry, and passed to every
// channel it makes.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{holders: make(map[string]*condchan.Holder)}
	for _, o := range opts {
		o(r)
	}
	return r
}

// FromConfig returns a registry holding a new channel per cfg.Channels.
func FromConfig(cfg *Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := New(opts...)
	for _, c := range cfg.Channels {
		h := elemTypes[c.Type](c.Capacity, condchan.WithLogger(r.logger))
		if err := r.Register(c.Name, h); err != nil {
			h.Destroy()
			r.DestroyAll()
			return nil, err
		}
		r.logger.Debug().
			Str(`name`, c.Name).
			Str(`type`, c.Type).
			Int(`cap`, c.Capacity).
			Str(`channel`, h.ID().String()).
			Log(`channel registered`)
	}
	return r, nil
}

// Register adds h under name, which must not already be in use.
func (r *Registry) Register(name string, h *condchan.Holder) error {
	if h == nil {
		panic(`registry: nil holder`)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holders[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateChannel, name)
	}
	r.holders[name] = h
	return nil
}

// Lookup returns the holder registered under name.
func (r *Registry) Lookup(name string) (*condchan.Holder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.holders[name]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}

// Typed returns the channel registered under name, if it has element type T.
func Typed[T any](r *Registry, name string) (condchan.Channel[T], error) {
	h, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	ch, err := condchan.Get[T](h)
	if err != nil {
		return nil, fmt.Errorf("channel %q: %w", name, err)
	}
	return ch, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.holders))
	for name := range r.holders {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Close closes the channel registered under name.
func (r *Registry) Close(name string) error {
	h, err := r.Lookup(name)
	if err != nil {
		return err
	}
	condchan.CloseChannel(h)
	return nil
}

// CloseAll closes every registered channel, leaving them registered.
func (r *Registry) CloseAll() {
	for _, h := range r.snapshot() {
		condchan.CloseChannel(h)
	}
}

// DestroyAll removes and destroys every registered channel, returning once
// every one of them has been destroyed.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	holders := r.holders
	r.holders = make(map[string]*condchan.Holder)
	r.mu.Unlock()

	var g errgroup.Group
	for name, h := range holders {
		name, h := name, h
		g.Go(func() error {
			h.Destroy()
			r.logger.Debug().
				Str(`name`, name).
				Str(`channel`, h.ID().String()).
				Log(`channel released`)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Registry) snapshot() []*condchan.Holder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	holders := make([]*condchan.Holder, 0, len(r.holders))
	for _, h := range r.holders {
		holders = append(holders, h)
	}
	return holders
}
