/*
Package cache provides the per-type entity cache.

A Cache holds at most DefaultMaxEntries values, evicting the least recently
used, and drops any entry that has not been read or written for
DefaultIdleTimeout:

	c := cache.New[string, *Song](cache.WithMaxEntries(500))
	c.Put(key, song)
	if s, ok := c.GetIfPresent(key); ok {
	    return s
	}

A nil *Cache behaves as a cache that never holds anything, so types that did
not opt in need no special casing.
*/
package cache
