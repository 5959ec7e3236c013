/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/config"
	"github.com/suparena/rowmapper/storagemodels"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Keyspace = "music"
	cfg.Backend = config.BackendMemory
	cfg.Tables = []storagemodels.TableDef{{
		Name:       "playlists",
		PrimaryKey: []string{"id", "title"},
		Columns: []storagemodels.ColumnDef{
			{Name: "id", Type: column.UUID},
			{Name: "title", Type: column.Text},
			{Name: "plays", Type: column.Varint},
		},
	}}
	require.NoError(t, cfg.Validate())
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDescribe(t *testing.T) {
	var out bytes.Buffer
	describe(&out, testConfig(t))

	text := out.String()
	assert.Contains(t, text, "keyspace music (backend memory)")
	assert.Contains(t, text, "music.playlists  primary key (id, title)")
	assert.Contains(t, text, "varint")
}

func TestGetMissingRow(t *testing.T) {
	var out bytes.Buffer
	err := get(context.Background(), &out, testConfig(t), discard(), "playlists",
		[]string{"8c3a3b1e-5f4e-4d0f-9b57-3c2a1d0e9f11", "Road Trip"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "no row for")
}

func TestGetArgumentErrors(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	err := get(ctx, io.Discard, cfg, discard(), "albums", []string{"x"})
	assert.ErrorContains(t, err, "not configured")

	err = get(ctx, io.Discard, cfg, discard(), "playlists", []string{"8c3a3b1e-5f4e-4d0f-9b57-3c2a1d0e9f11"})
	assert.ErrorContains(t, err, "primary key")

	err = get(ctx, io.Discard, cfg, discard(), "playlists", []string{"not-a-uuid", "Road Trip"})
	assert.ErrorContains(t, err, "key column id")
}
