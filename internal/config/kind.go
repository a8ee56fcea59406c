package config

import (
	"path/filepath"
	"strings"
)

// StoreKind names a storage backend.
type StoreKind string

const (
	KindSQLite   StoreKind = "sqlite"
	KindPostgres StoreKind = "postgres"
	KindJSON     StoreKind = "json"
	KindBolt     StoreKind = "bbolt"
)

// KindOf picks the backend for a config value: PostgreSQL URLs and key=value
// strings, .json files, .bolt/.bbolt files, and SQLite for anything else.
func KindOf(value string) StoreKind {
	v := strings.TrimSpace(value)
	if strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://") || strings.Contains(v, "host=") {
		return KindPostgres
	}
	switch strings.ToLower(filepath.Ext(v)) {
	case ".json":
		return KindJSON
	case ".bolt", ".bbolt":
		return KindBolt
	}
	return KindSQLite
}

func (c Config) Kind() StoreKind {
	return KindOf(c.ConfigPath)
}
