/*
Package mapping is the engine that moves typed values in and out of rows.

For each mapped type the Registry builds an EntityMapping once:

  - a FieldDescriptor per mapped field, owning that column's coercion
  - a KeyDescriptor over the primary fields (SingleKey or CompositeKeyDescriptor)
  - a Loader using the best construction strategy the type offers
  - an entity cache when the type opted in

Mappings are published in an immutable snapshot, so concurrent callers share
them without locking. Two callers racing on a type that was never mapped
build it once.

Composite keys are passed as CompositeKey values:

	key := mapping.NewCompositeKey(id, "Foo", "Bar")
	where, err := m.Key.Predicate(key)
*/
package mapping
