/*
Package storagemodels defines the data structures exchanged between the mapper
and store implementations.

Key Types:

Row:
A fetched row. Each column carries its wire type and decoded value, read
through typed getters:

	row := storagemodels.NewRow().
	    Set("id", column.UUID, id).
	    Set("plays", column.Varint, big.NewInt(3))

	plays, err := row.GetVarint("plays")

Select, Upsert, Delete:
Statements against one table of a keyspace. Select and Delete carry a
Predicate, an ordered list of column = value constraints:

	q := &storagemodels.Select{
	    Keyspace: "music",
	    Table:    "playlists",
	    Where: storagemodels.Predicate{
	        {Column: "id", Value: id},
	        {Column: "title", Value: "Foo"},
	        {Column: "album", Value: "Bar"},
	    },
	}

TableDef:
Column types and primary key order of a table, used by backends to decode
values and address rows:

	def := storagemodels.TableDef{
	    Keyspace:   "music",
	    Name:       "songs",
	    Columns:    []storagemodels.ColumnDef{{Name: "id", Type: column.UUID}, {Name: "name", Type: column.Text}},
	    PrimaryKey: []string{"id"},
	}

These types provide a consistent interface across different storage implementations.
*/
package storagemodels
