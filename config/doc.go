/*
Package config loads deployment configuration for a mapper from a YAML file,
.env files and the environment, and opens the configured store backend.

Example configuration:

	keyspace: music
	backend: dynamodb
	dynamodb:
	  region: us-west-2
	  table_name: music-table
	rate_limit:
	  rps: 50
	  burst: 10
	cache:
	  max_entries: 5000
	  idle_timeout: 5m
	tables:
	  - name: songs
	    primary_key: [id]
	    columns:
	      - {name: id, type: uuid}
	      - {name: title, type: text}

Environment overrides:
  - ROWMAP_KEYSPACE, ROWMAP_BACKEND
  - AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, DDB_ENDPOINT, DDB_TABLE_NAME
  - ROWMAP_REDIS_ADDR, ROWMAP_REDIS_PASSWORD, ROWMAP_REDIS_DB, ROWMAP_REDIS_PREFIX
  - ROWMAP_RATE_LIMIT_RPS, ROWMAP_RATE_LIMIT_BURST
  - ROWMAP_CACHE_MAX_ENTRIES, ROWMAP_CACHE_IDLE_TIMEOUT

Usage:

	cfg, err := config.Load("rowmap.yaml")
	if err != nil {
	    return err
	}
	store, err := config.OpenStore(ctx, cfg, logger)
	if err != nil {
	    return err
	}
	m, err := rowmapper.Configure().
	    WithKeyspace(cfg.Keyspace).
	    WithStore(store).
	    WithCacheOptions(cfg.CacheOptions()...).
	    Connect()
*/
package config
