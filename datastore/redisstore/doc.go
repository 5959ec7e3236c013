/*
Package redisstore provides a Redis implementation of the datastore.Store
interface.

Each row is one hash stored under

	<prefix><keyspace>:<table>:<key part>[:<key part>...]

whose fields are column names holding the canonical text form of each value
(see column.Format). Null columns are absent fields, and a row exists as long
as its hash does.

Usage:

	client, err := redisstore.Dial(ctx, redisstore.Options{Addr: "localhost:6379"})
	store, err := redisstore.New(client, tables, redisstore.WithPrefix("rowmap:"))
*/
package redisstore
