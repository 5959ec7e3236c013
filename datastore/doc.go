/*
Package datastore defines the store collaborator the mapper issues row fetches
and row writes to.

The main interface is Store, which executes single-row statements:

	type Store interface {
	    FetchOne(ctx context.Context, q *storagemodels.Select) (*storagemodels.Row, error)
	    Upsert(ctx context.Context, u *storagemodels.Upsert) error
	    Delete(ctx context.Context, d *storagemodels.Delete) error
	    Close() error
	}

FetchOne returns a nil row and a nil error when nothing matches. Rows report
each column's wire type so the mapper can coerce values into field kinds.

Implementations:
  - mock: In-memory wide-column store for tests and examples
  - ddb: DynamoDB implementation addressing rows by PK/SK
  - redisstore: Redis implementation keeping one hash per row

Backends learn the column types and primary key order of each table from a
TableLookup, usually built with NewTables from configuration.
*/
package datastore
