/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"github.com/google/uuid"

	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/schema"
)

type song struct {
	ID   uuid.UUID `rowmap:"id,primary"`
	Name string    `rowmap:"name"`
}

func (song) TableName() string { return "songs" }

type playlist struct {
	ID    uuid.UUID `rowmap:"id,primary"`
	Title string    `rowmap:"title,primary"`
	Album string    `rowmap:"album,primary"`
	Plays int32     `rowmap:"plays"`
}

func (playlist) TableName() string { return "playlists" }
func (playlist) Cached() bool      { return true }

// fieldsFor runs tag discovery and builds descriptors for v's type.
func fieldsFor(desc *schema.Description) []*FieldDescriptor {
	fields := make([]*FieldDescriptor, len(desc.Fields))
	for i, spec := range desc.Fields {
		f, err := NewFieldDescriptor("test", spec)
		if err != nil {
			panic(err)
		}
		fields[i] = f
	}
	return fields
}

func textSpec(name string, primary bool) schema.FieldSpec {
	return schema.FieldSpec{Name: name, FieldName: name, Primary: primary, Kind: column.KindText}
}
