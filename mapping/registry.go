/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/suparena/rowmapper/cache"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/schema"
)

// Registry builds the EntityMapping of each type once and shares it.
// Readers never lock; builders serialize on a mutex and publish a new
// immutable snapshot holding every mapping built so far.
type Registry struct {
	keyspace  string
	describer schema.Describer
	cacheOpts []cache.Option
	logger    *slog.Logger

	mu       sync.Mutex
	snapshot atomic.Pointer[map[reflect.Type]*EntityMapping]
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDescriber replaces the struct tag describer.
func WithDescriber(d schema.Describer) RegistryOption {
	return func(r *Registry) {
		if d != nil {
			r.describer = d
		}
	}
}

// WithCacheOptions sets the options entity caches are built with.
func WithCacheOptions(opts ...cache.Option) RegistryOption {
	return func(r *Registry) { r.cacheOpts = append(r.cacheOpts, opts...) }
}

// WithLogger sets the logger build failures are reported to.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty Registry for tables in keyspace.
func NewRegistry(keyspace string, opts ...RegistryOption) *Registry {
	r := &Registry{
		keyspace:  keyspace,
		describer: schema.Tags,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	empty := make(map[reflect.Type]*EntityMapping)
	r.snapshot.Store(&empty)
	return r
}

// Keyspace returns the keyspace mappings are built for.
func (r *Registry) Keyspace() string { return r.keyspace }

// MappingFor returns the mapping of t, building it on first use. Pointer
// types resolve to their element type. Failed builds are not remembered, so
// a later call tries again.
func (r *Registry) MappingFor(t reflect.Type) (*EntityMapping, error) {
	if t == nil {
		return nil, errors.NewValidationError("type", "nil type")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if m, ok := (*r.snapshot.Load())[t]; ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.snapshot.Load()
	if m, ok := current[t]; ok {
		return m, nil
	}

	m, err := r.build(t)
	if err != nil {
		r.logger.Warn("mapping build failed", "type", t.String(), "error", err)
		return nil, err
	}

	next := make(map[reflect.Type]*EntityMapping, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[t] = m
	r.snapshot.Store(&next)

	r.logger.Debug("mapping built",
		"type", t.String(),
		"table", m.Table,
		"key", m.Key.Columns(),
		"strategy", m.Loader.Strategy().String(),
		"cached", m.Cache != nil)
	return m, nil
}

// Len returns the number of mappings built.
func (r *Registry) Len() int {
	return len(*r.snapshot.Load())
}

func (r *Registry) build(t reflect.Type) (*EntityMapping, error) {
	owner := t.String()
	desc, err := r.describer.Describe(t)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, errors.NewSchemaError(owner, "describer returned no description")
	}
	if desc.Table == "" {
		return nil, errors.NewSchemaError(owner, "no table name")
	}
	if len(desc.Fields) == 0 {
		return nil, errors.NewSchemaError(owner, "no mapped columns")
	}

	fields := make([]*FieldDescriptor, 0, len(desc.Fields))
	seen := make(map[string]string, len(desc.Fields))
	for _, spec := range desc.Fields {
		f, err := NewFieldDescriptor(owner, spec)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[f.Column()]; dup {
			return nil, errors.NewSchemaError(owner,
				fmt.Sprintf("fields %s and %s both map to column %q", prev, f.FieldName(), f.Column()))
		}
		seen[f.Column()] = f.FieldName()
		fields = append(fields, f)
	}

	key, err := KeyDescriptorFor(owner, fields)
	if err != nil {
		return nil, err
	}
	loader, err := SelectLoader(owner, fields, desc.Constructors)
	if err != nil {
		return nil, err
	}

	m := &EntityMapping{
		Type:     t,
		Keyspace: r.keyspace,
		Table:    desc.Table,
		Fields:   fields,
		Key:      key,
		Loader:   loader,
	}
	if desc.Cached {
		m.Cache = cache.New[string, any](r.cacheOpts...)
	}
	return m, nil
}
