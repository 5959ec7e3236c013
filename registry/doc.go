/*
Package registry records per-type declarations that struct tags cannot express.

The registry enables:
  - Naming the table a type is stored in
  - Opting a type into the entity cache
  - Declaring constructors the loader may build instances with

Table and cache registration:

	registry.RegisterTable[Song]("songs")
	registry.RegisterCached[Song](true)

Constructor registration. A constructor whose parameters match the mapped
fields in order and kind is preferred over building a zero value and setting
fields one by one:

	registry.RegisterConstructor[Song](func(id uuid.UUID, name string) *Song {
	    return &Song{ID: id, Name: name}
	})

The registry is thread-safe and should be populated during initialization,
typically in init() functions.
*/
package registry
