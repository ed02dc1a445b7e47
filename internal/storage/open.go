package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/askme/internal/learned"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and configures the durable store.
type Config struct {
	Driver  string `mapstructure:"driver"`
	DataDir string `mapstructure:"data-dir"`
	DSN     string `mapstructure:"dsn"`
}

// Store is a closable learned.Store.
type Store interface {
	learned.Store
	io.Closer
}

// Open returns the store selected by cfg.Driver. An empty driver means no
// durable store and yields (nil, nil).
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "none":
		return nil, nil
	case DriverSQLite:
		dir := strings.TrimSpace(cfg.DataDir)
		if dir == "" {
			dir = "data"
		}
		s, err := OpenSQLite(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		dsn := strings.TrimSpace(cfg.DSN)
		if dsn == "" {
			return nil, fmt.Errorf("storage dsn is required for the %s driver", DriverPostgres)
		}
		s, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
