/*
Package ddb provides a DynamoDB implementation of the datastore.Store interface.

The Store supports:
  - Single-table design: every mapped table lives in one DynamoDB table
  - PK/SK addressing derived from the mapped table's primary key
  - Typed attributes (BOOL, N, B, S) decoded back to column wire types
  - Client side rate limiting and retries of throttled requests

Key Layout:

A row of table "playlists" in keyspace "music" with primary key
(id, title, album) is stored as

	PK = "MUSIC#PLAYLISTS#<id>"
	SK = "<title>#<album>"

Rows of single column key tables use PK as SK as well. Each item also carries
an EntityType attribute naming its table.

Usage:

	client, err := ddb.NewDynamoDBClient(ctx, accessKey, secretKey, region, "")
	tables, err := datastore.NewTables(songsDef, playlistsDef)
	store, err := ddb.New(client, "music", tables,
	    ddb.WithRateLimit(50, 10),
	    ddb.WithRetry(ddb.RetryOptions{MaxRetries: 3, Backoff: 100 * time.Millisecond}),
	)
*/
package ddb
