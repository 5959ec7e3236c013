/*
Package rowmapper maps Go structs to rows of a wide-column store,
translating between typed values and loosely typed wire values, with an
optional per-type cache in front of the fetch path.

The library follows a describe → build → run workflow:
  - Describe: tag struct fields with their columns and mark the primary key
  - Build: on first use, the mapper builds an immutable mapping per type
  - Run: use type-safe Get/Persist operations

Key Features:
  - Type-safe operations using Go generics
  - Single and composite primary keys
  - Overflow checked coercion of wire values into field kinds
  - Constructor or field injection based loading
  - Bounded, idle-expiring entity cache for opted-in types
  - Multiple store backends (in-memory, DynamoDB, Redis)
  - Semantic error types for better error handling

Basic Usage:

	type Song struct {
	    ID   uuid.UUID `rowmap:"id,primary"`
	    Name string    `rowmap:"name"`
	}

	func (Song) TableName() string { return "songs" }

	mapper, err := rowmapper.Configure().
	    WithKeyspace("music").
	    WithStore(store).
	    Connect()

	_, err = rowmapper.Persist(ctx, mapper, &Song{ID: id, Name: "Zomg"})
	song, err := rowmapper.Get[Song](ctx, mapper, id)

Composite keys are passed positionally:

	p, err := rowmapper.Get[Playlist](ctx, mapper, id, "Foo", "Bar")

Get returns a nil entity and a nil error when no row matches.
*/
package rowmapper
