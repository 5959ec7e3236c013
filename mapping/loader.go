/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/schema"
	"github.com/suparena/rowmapper/storagemodels"
)

// Strategy names how a Loader builds instances.
type Strategy int

const (
	// StrategyNone means the type has no usable constructor.
	StrategyNone Strategy = iota
	// StrategyInjection builds a blank instance and sets every field.
	StrategyInjection
	// StrategyArguments passes every field to a constructor.
	StrategyArguments
)

func (s Strategy) String() string {
	switch s {
	case StrategyInjection:
		return "injection"
	case StrategyArguments:
		return "arguments"
	}
	return "none"
}

// Loader rebuilds an instance from a fetched row.
type Loader interface {
	Load(row *storagemodels.Row) (any, error)
	Strategy() Strategy
}

// SelectLoader picks the construction strategy for a type. A constructor is a
// candidate when it takes no parameters or when its parameter kinds equal the
// field kinds position by position. The candidate with the most parameters
// wins; two argument constructors of the same arity are ambiguous.
func SelectLoader(owner string, fields []*FieldDescriptor, ctors []schema.Constructor) (Loader, error) {
	best := -1
	for i, c := range ctors {
		if c.New == nil || !candidate(c, fields) {
			continue
		}
		switch {
		case best < 0 || len(c.Params) > len(ctors[best].Params):
			best = i
		case len(c.Params) == len(ctors[best].Params) && len(c.Params) > 0:
			return nil, errors.NewSchemaError(owner,
				fmt.Sprintf("ambiguous constructors: more than one takes all %d fields", len(fields)))
		}
	}

	if best < 0 {
		return &noConstructorLoader{owner: owner, fields: len(fields)}, nil
	}
	if len(ctors[best].Params) == 0 {
		return &injectionLoader{owner: owner, ctor: ctors[best], fields: fields}, nil
	}
	return &argumentLoader{owner: owner, ctor: ctors[best], fields: fields}, nil
}

func candidate(c schema.Constructor, fields []*FieldDescriptor) bool {
	if len(c.Params) == 0 {
		return true
	}
	if len(c.Params) != len(fields) {
		return false
	}
	for i, p := range c.Params {
		if p != fields[i].Kind() {
			return false
		}
	}
	return true
}

// construct invokes ctor, turning errors, panics and nil instances into
// ConstructionErrors.
func construct(owner string, ctor schema.Constructor, args []any) (inst any, err error) {
	defer func() {
		if r := recover(); r != nil {
			inst = nil
			err = errors.NewConstructionError(owner, len(args), fmt.Errorf("panic: %v", r))
		}
	}()
	inst, err = ctor.New(args)
	if err != nil {
		return nil, errors.NewConstructionError(owner, len(args), err)
	}
	if inst == nil || (reflect.ValueOf(inst).Kind() == reflect.Pointer && reflect.ValueOf(inst).IsNil()) {
		return nil, errors.NewConstructionError(owner, len(args), stderrors.New("constructor returned nil"))
	}
	return inst, nil
}

type injectionLoader struct {
	owner  string
	ctor   schema.Constructor
	fields []*FieldDescriptor
}

func (l *injectionLoader) Strategy() Strategy { return StrategyInjection }

func (l *injectionLoader) Load(row *storagemodels.Row) (any, error) {
	inst, err := construct(l.owner, l.ctor, nil)
	if err != nil {
		return nil, err
	}
	for _, f := range l.fields {
		if !f.Settable() {
			continue
		}
		v, err := f.Coerce(row)
		if err != nil {
			return nil, err
		}
		if err := f.Set(inst, v); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

type argumentLoader struct {
	owner  string
	ctor   schema.Constructor
	fields []*FieldDescriptor
}

func (l *argumentLoader) Strategy() Strategy { return StrategyArguments }

func (l *argumentLoader) Load(row *storagemodels.Row) (any, error) {
	args := make([]any, len(l.fields))
	for i, f := range l.fields {
		v, err := f.Coerce(row)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return construct(l.owner, l.ctor, args)
}

type noConstructorLoader struct {
	owner  string
	fields int
}

func (l *noConstructorLoader) Strategy() Strategy { return StrategyNone }

func (l *noConstructorLoader) Load(*storagemodels.Row) (any, error) {
	return nil, errors.NewNoConstructorError(l.owner, l.fields)
}
