/*
Package schema describes mapped types to the mapping engine as plain data.

A Description lists a type's mapped fields in declaration order, each with its
column name, kind, primary flag and accessor closures, plus the constructors
the loader may choose from. The mapping engine consumes Descriptions and never
inspects a type's structure itself.

The default Describer reads struct tags:

	type Song struct {
	    ID   uuid.UUID `rowmap:"id,primary"`
	    Name string    `rowmap:"name"`
	}

	func (Song) TableName() string { return "songs" }

Tag options:
  - primary (or pk): the field is part of the primary key
  - readonly: the field is written to the store but never set on load

An empty name or "-" uses the field's own name. Untagged fields are not mapped.
*/
package schema
