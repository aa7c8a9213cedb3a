package persist

import (
	"context"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
)

// Options selects and configures a store for Open.
type Options struct {
	// Driver is "memory", "sqlite", "postgres" or "s3". Empty means "memory".
	Driver string

	// Path is the SQLite database file.
	Path string

	// DSN is the PostgreSQL connection string.
	DSN string

	// Bucket and Prefix locate S3 objects.
	Bucket string
	Prefix string

	// Region and Endpoint configure the S3 client.
	Region   string
	Endpoint string
}

// Open builds the store described by opts. SQLite databases are migrated
// before use.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryStore(), nil

	case "sqlite":
		path := opts.Path
		if path == "" {
			path = "groupkit.db"
		}
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, storeError("open sqlite", err)
		}
		if err := Migrate(db, DialectSQLite); err != nil {
			db.Close()
			return nil, migrateError("sqlite", err)
		}
		return NewSQLStore(db, WithSQLDialect(DialectSQLite), WithOwnedDB()), nil

	case "postgres":
		if opts.DSN == "" {
			return nil, kiterrors.New("G010").WithDetail("store.dsn is required for the postgres driver")
		}
		db, err := OpenPostgres(opts.DSN)
		if err != nil {
			return nil, storeError("open postgres", err)
		}
		if err := Migrate(db, DialectPostgreSQL); err != nil {
			db.Close()
			return nil, migrateError("postgres", err)
		}
		return NewSQLStore(db, WithSQLDialect(DialectPostgreSQL), WithOwnedDB()), nil

	case "s3":
		if opts.Bucket == "" {
			return nil, kiterrors.New("G010").WithDetail("store.bucket is required for the s3 driver")
		}
		client, err := NewS3Client(ctx, S3Config{Region: opts.Region, Endpoint: opts.Endpoint})
		if err != nil {
			return nil, storeError("load aws config", err)
		}
		return NewS3Store(client, opts.Bucket, opts.Prefix), nil
	}

	return nil, kiterrors.New("G010").
		WithDetailf("unknown store driver %q", opts.Driver).
		WithSuggestion("Use memory, sqlite, postgres or s3")
}
