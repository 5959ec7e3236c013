/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sync"
)

// Registration holds what has been declared about a mapped type outside of
// its struct tags.
type Registration struct {
	// Table is the table the type maps to.
	Table string
	// Cached opts the type into the entity cache when set.
	Cached *bool
	// Constructors are funcs returning *T or (*T, error).
	Constructors []any
}

var (
	typeRegistry = make(map[reflect.Type]*Registration)
	mu           sync.RWMutex
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func entry(t reflect.Type) *Registration {
	r, ok := typeRegistry[t]
	if !ok {
		r = &Registration{}
		typeRegistry[t] = r
	}
	return r
}

// RegisterTable associates a Go type T with the table it is stored in.
func RegisterTable[T any](table string) {
	t := typeOf[T]()

	mu.Lock()
	defer mu.Unlock()
	entry(t).Table = table
}

// RegisterCached opts type T in or out of the entity cache.
func RegisterCached[T any](cached bool) {
	t := typeOf[T]()

	mu.Lock()
	defer mu.Unlock()
	entry(t).Cached = &cached
}

// RegisterConstructor declares a constructor for T. fn must be a func whose
// results are *T or (*T, error). It panics on any other shape to catch
// mistakes at init time.
func RegisterConstructor[T any](fn any) {
	t := typeOf[T]()
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		panic(fmt.Sprintf("type registry: constructor for %s must be a func, got %T", t, fn))
	}
	errType := reflect.TypeOf((*error)(nil)).Elem()
	ptr := reflect.PointerTo(t)
	switch {
	case ft.NumOut() == 1 && ft.Out(0) == ptr:
	case ft.NumOut() == 2 && ft.Out(0) == ptr && ft.Out(1) == errType:
	default:
		panic(fmt.Sprintf("type registry: constructor %s for %s must return *%s or (*%s, error)", ft, t, t.Name(), t.Name()))
	}
	if ft.IsVariadic() {
		panic(fmt.Sprintf("type registry: constructor %s for %s cannot be variadic", ft, t))
	}

	mu.Lock()
	defer mu.Unlock()
	r := entry(t)
	r.Constructors = append(r.Constructors, fn)
}

// Lookup returns a copy of the registration for t, if any.
func Lookup(t reflect.Type) (Registration, bool) {
	mu.RLock()
	defer mu.RUnlock()
	r, ok := typeRegistry[t]
	if !ok {
		return Registration{}, false
	}
	out := *r
	out.Constructors = append([]any(nil), r.Constructors...)
	return out, true
}

// Reset forgets the registration for t.
func Reset(t reflect.Type) {
	mu.Lock()
	defer mu.Unlock()
	delete(typeRegistry, t)
}
