package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"

	// registers the "sqlite" database/sql driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/clock"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/idgen"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collections (
	key    TEXT PRIMARY KEY,
	label  TEXT NOT NULL,
	folder TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	collection_key TEXT NOT NULL REFERENCES collections(key),
	name           TEXT NOT NULL,
	id             TEXT NOT NULL,
	type           TEXT NOT NULL,
	data           TEXT NOT NULL,
	updated_at     INTEGER NOT NULL,
	PRIMARY KEY (collection_key, name)
);
`

// SQLiteConfig contains configuration for the SQLite content repository
type SQLiteConfig struct {
	Path        string
	IDGenerator idgen.Generator
	Clock       clock.Clock
}

// Validate validates the SQLiteConfig
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("path", cfg.Path, vb)
	return vb.Build()
}

// SQLiteRepository implements Repository on a SQLite database file
type SQLiteRepository struct {
	db      *sql.DB
	stamper stamper
}

// OpenSQLite opens (creating if needed) the database at cfg.Path and applies the schema
func OpenSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dsn := filepath.Clean(cfg.Path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to ping sqlite database")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to apply sqlite schema")
	}

	return &SQLiteRepository{
		db:      db,
		stamper: newStamper(cfg.IDGenerator, cfg.Clock),
	}, nil
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CreateOrReplace deletes the record of the same name and inserts the new one in one transaction
func (r *SQLiteRepository) CreateOrReplace(ctx context.Context, input *CreateOrReplaceInput) (*CreateOrReplaceOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	rec := r.stamper.stamp(input.Record)
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal record %q", rec.Name)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	c := input.Collection
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO collections (key, label, folder) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET label = excluded.label, folder = excluded.folder`,
		c.Key, c.Label, c.Folder,
	); err != nil {
		return nil, errors.Wrapf(err, "failed to upsert collection %s", c.Key)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM records WHERE collection_key = ? AND name = ?`,
		c.Key, rec.Name,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete record %q", rec.Name)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read deleted rows")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records (collection_key, name, id, type, data, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Key, rec.Name, rec.ID, string(rec.Type), string(data), rec.UpdatedAt.UnixMilli(),
	); err != nil {
		return nil, errors.Wrapf(err, "failed to insert record %q", rec.Name)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit record")
	}

	return &CreateOrReplaceOutput{Record: rec, Replaced: deleted > 0}, nil
}

// Get retrieves a record by collection and name
func (r *SQLiteRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.CollectionKey, input.Name, true); err != nil {
		return nil, err
	}

	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE collection_key = ? AND name = ?`,
		input.CollectionKey, input.Name,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("record %q not found in collection %s", input.Name, input.CollectionKey)
		}
		return nil, errors.Wrapf(err, "failed to get record %q", input.Name)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Record: rec}, nil
}

// List returns the records of a collection ordered by name
func (r *SQLiteRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.CollectionKey, "", false); err != nil {
		return nil, err
	}

	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM collections WHERE key = ?`, input.CollectionKey).Scan(&exists)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check collection %s", input.CollectionKey)
	}
	if exists == 0 {
		return nil, errors.NotFoundf("collection %s not found", input.CollectionKey)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM records WHERE collection_key = ?`,
		input.CollectionKey,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list collection %s", input.CollectionKey)
	}
	defer func() { _ = rows.Close() }()

	records := []*content.Record{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "failed to scan record")
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate records")
	}
	// byte-wise ordering, same as the other stores
	sortRecords(records)

	return &ListOutput{Records: records}, nil
}

// ListCollections returns the known collections ordered by key
func (r *SQLiteRepository) ListCollections(ctx context.Context, _ *ListCollectionsInput) (*ListCollectionsOutput, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, label, folder FROM collections`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list collections")
	}
	defer func() { _ = rows.Close() }()

	collections := []content.Collection{}
	for rows.Next() {
		var c content.Collection
		if err := rows.Scan(&c.Key, &c.Label, &c.Folder); err != nil {
			return nil, errors.Wrap(err, "failed to scan collection")
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate collections")
	}
	sortCollections(collections)

	return &ListCollectionsOutput{Collections: collections}, nil
}

// Delete removes a record
func (r *SQLiteRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.CollectionKey, input.Name, true); err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection_key = ? AND name = ?`,
		input.CollectionKey, input.Name,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete record %q", input.Name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read deleted rows")
	}
	if n == 0 {
		return nil, errors.NotFoundf("record %q not found in collection %s", input.Name, input.CollectionKey)
	}

	return &DeleteOutput{}, nil
}

var (
	_ Repository = (*SQLiteRepository)(nil)
	_ Repository = (*InMemoryRepository)(nil)
)
