/*
Package column defines the wire type vocabulary of the store and the rules for
moving values between wire types and the declared kinds of mapped fields.

Wire types (Type) are the column types a store reports for a row: boolean, int,
bigint, counter, varint, float, double, decimal, text, ascii, varchar, uuid,
timeuuid, timestamp, blob, inet and the collection types list, set and map.

Field kinds (Kind) are the Go shapes a mapped field is declared with:

	KindUUID      uuid.UUID
	KindText      string
	KindBoolean   bool
	KindInt32     int32
	KindInt64     int64 (and int)
	KindVarint    *big.Int
	KindDouble    float64
	KindTimestamp time.Time
	KindBlob      []byte

Coerce is the read direction. It is total over every (Type, Kind) pair:

	v, err := column.Coerce(column.Varint, big.NewInt(3), column.KindInt32)
	// v == int32(3)

	_, err = column.Coerce(column.Bigint, int64(math.MaxInt64), column.KindInt32)
	// errors.IsRangeError(err) == true

Encode is the write direction used by store implementations, and Format/Parse
give every scalar wire value a canonical text form.
*/
package column
