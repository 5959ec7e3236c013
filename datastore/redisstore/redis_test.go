/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redisstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/datastore"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/storagemodels"
)

var _ datastore.Store = (*Store)(nil)

// fakeClient is an in-memory hash store. Transactions apply their queued
// commands all at once, or not at all when execErr is set.
type fakeClient struct {
	mu      sync.Mutex
	hashes  map[string]map[string]string
	closed  bool
	txs     int
	execErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{hashes: make(map[string]map[string]string)}
}

func (f *fakeClient) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.hashes[key]))
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (f *fakeClient) TxPipelined(_ context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	tx := &fakeTx{}
	if err := fn(tx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.execErr != nil {
		return nil, f.execErr
	}
	f.txs++
	for _, op := range tx.ops {
		op(f)
	}
	return nil, nil
}

func (f *fakeClient) hset(key string, values ...interface{}) {
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	for i := 0; i+1 < len(values); i += 2 {
		h[values[i].(string)] = values[i+1].(string)
	}
}

func (f *fakeClient) hdel(key string, fields ...string) {
	for _, field := range fields {
		delete(f.hashes[key], field)
	}
	if len(f.hashes[key]) == 0 {
		delete(f.hashes, key)
	}
}

// fakeTx queues the hash commands the store issues inside a transaction.
// Any other Pipeliner method panics on the nil embedded interface.
type fakeTx struct {
	redis.Pipeliner
	ops []func(*fakeClient)
}

func (tx *fakeTx) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	tx.ops = append(tx.ops, func(f *fakeClient) { f.hset(key, values...) })
	return redis.NewIntCmd(ctx)
}

func (tx *fakeTx) HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd {
	tx.ops = append(tx.ops, func(f *fakeClient) { f.hdel(key, fields...) })
	return redis.NewIntCmd(ctx)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for _, k := range keys {
		if _, ok := f.hashes[k]; ok {
			delete(f.hashes, k)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func playlistsTable() storagemodels.TableDef {
	return storagemodels.TableDef{
		Keyspace: "music",
		Name:     "playlists",
		Columns: []storagemodels.ColumnDef{
			{Name: "id", Type: column.UUID},
			{Name: "title", Type: column.Text},
			{Name: "album", Type: column.Text},
			{Name: "plays", Type: column.Bigint},
		},
		PrimaryKey: []string{"id", "title", "album"},
	}
}

func newTestStore(t *testing.T) (*Store, *fakeClient) {
	t.Helper()
	tables, err := datastore.NewTables(playlistsTable())
	require.NoError(t, err)
	client := newFakeClient()
	store, err := New(client, tables, WithPrefix("rm:"), WithRateLimit(1000, 10))
	require.NoError(t, err)
	return store, client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, client := newTestStore(t)

	id := uuid.New()
	where := storagemodels.Predicate{
		{Column: "id", Value: id},
		{Column: "title", Value: "Foo:Bar"},
		{Column: "album", Value: "Baz"},
	}
	require.NoError(t, store.Upsert(ctx, &storagemodels.Upsert{
		Keyspace: "music",
		Table:    "playlists",
		Values: []storagemodels.Assignment{
			{Column: "id", Value: id},
			{Column: "title", Value: "Foo:Bar"},
			{Column: "album", Value: "Baz"},
			{Column: "plays", Value: int64(42)},
		},
	}))

	key := "rm:music:playlists:" + id.String() + ":Foo%3ABar:Baz"
	require.Contains(t, client.hashes, key)
	assert.Equal(t, "42", client.hashes[key]["plays"])

	row, err := store.FetchOne(ctx, &storagemodels.Select{Keyspace: "music", Table: "playlists", Where: where})
	require.NoError(t, err)
	require.NotNil(t, row)
	plays, err := row.GetLong("plays")
	require.NoError(t, err)
	assert.Equal(t, int64(42), plays)
	got, err := row.GetUUID("id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// writing null clears the field
	require.NoError(t, store.Upsert(ctx, &storagemodels.Upsert{
		Keyspace: "music",
		Table:    "playlists",
		Values: []storagemodels.Assignment{
			{Column: "id", Value: id},
			{Column: "title", Value: "Foo:Bar"},
			{Column: "album", Value: "Baz"},
			{Column: "plays", Value: nil},
		},
	}))
	row, err = store.FetchOne(ctx, &storagemodels.Select{Keyspace: "music", Table: "playlists", Where: where})
	require.NoError(t, err)
	v, err := row.Value("plays")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, store.Delete(ctx, &storagemodels.Delete{Keyspace: "music", Table: "playlists", Where: where}))
	row, err = store.FetchOne(ctx, &storagemodels.Select{Keyspace: "music", Table: "playlists", Where: where})
	require.NoError(t, err)
	assert.Nil(t, row)

	require.NoError(t, store.Close())
	assert.True(t, client.closed)
}

func TestRedisStoreUpsertIsAtomic(t *testing.T) {
	ctx := context.Background()
	store, client := newTestStore(t)

	id := uuid.New()
	row := func(plays any) *storagemodels.Upsert {
		return &storagemodels.Upsert{Keyspace: "music", Table: "playlists", Values: []storagemodels.Assignment{
			{Column: "id", Value: id},
			{Column: "title", Value: "Foo"},
			{Column: "album", Value: "Bar"},
			{Column: "plays", Value: plays},
		}}
	}
	require.NoError(t, store.Upsert(ctx, row(int64(42))))
	assert.Equal(t, 1, client.txs)

	key := "rm:music:playlists:" + id.String() + ":Foo:Bar"
	before := map[string]string{}
	for k, v := range client.hashes[key] {
		before[k] = v
	}

	// Values and nulls go out in one transaction; a failed EXEC leaves the
	// row as it was.
	client.execErr = fmt.Errorf("EXECABORT")
	err := store.Upsert(ctx, row(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, client.execErr)
	assert.Equal(t, before, client.hashes[key])

	client.execErr = nil
	require.NoError(t, store.Upsert(ctx, row(nil)))
	assert.Equal(t, 2, client.txs)
	assert.NotContains(t, client.hashes[key], "plays")
	assert.Equal(t, "Foo", client.hashes[key]["title"])
}

func TestRedisStoreErrors(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.FetchOne(ctx, &storagemodels.Select{Keyspace: "music", Table: "songs"})
	assert.True(t, errors.IsNotFound(err))

	err = store.Upsert(ctx, &storagemodels.Upsert{Keyspace: "music", Table: "playlists", Values: []storagemodels.Assignment{
		{Column: "id", Value: uuid.New()},
	}})
	assert.True(t, errors.IsValidationError(err))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = store.Delete(cancelled, &storagemodels.Delete{Keyspace: "music", Table: "playlists", Where: storagemodels.Predicate{
		{Column: "id", Value: uuid.New()},
		{Column: "title", Value: "a"},
		{Column: "album", Value: "b"},
	}})
	assert.Error(t, err)

	_, err = Dial(ctx, Options{})
	assert.True(t, errors.IsValidationError(err))
}
