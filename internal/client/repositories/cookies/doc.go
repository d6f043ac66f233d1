// Package cookies persists client cookies.
//
// Two implementations of Repository are provided: SQLiteRepository, backed
// by the goose-migrated cookies table, and MemoryRepository for ephemeral
// sessions and tests. Get returns (nil, nil) when no cookie is stored.
package cookies
