// Package sqlitevec provides a SQLite-backed memory.Store using sqlite-vec.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/interaction"
	"github.com/inkloomco/inkloom/pkg/memory"
)

// filterCandidateMultiplier widens KNN queries when a filter is active, so
// filtering after the KNN pass still leaves enough matches to fill topK.
const filterCandidateMultiplier = 4

// Store implements memory.Store using SQLite with the sqlite-vec extension.
// Record IDs double as vec0 rowids, so no ID mapping table is needed.
type Store struct {
	db         *sql.DB
	dimensions uint
	logger     *zap.Logger
}

// Config holds configuration for the SQLite store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the number of dimensions for the embedding vectors.
	Dimensions uint
}

// NewStore creates a SQLite-backed memory store.
func NewStore(c Config, logger *zap.Logger) (*Store, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("sqlite-vec embedding dimensions cannot be 0, must be configured")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", memory.ErrConnection, err)
	}

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite-vec not available: %v", memory.ErrConnection, err)
	}

	// Payload table keyed by the record ID. Filter sets and the structured
	// interaction are stored as JSON; created_at is indexed for the
	// recency query.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS memories (
			id INTEGER PRIMARY KEY,
			content TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			interaction TEXT NOT NULL,
			characters TEXT NOT NULL DEFAULT '[]',
			locations TEXT NOT NULL DEFAULT '[]',
			plot_elements TEXT NOT NULL DEFAULT '[]',
			importance REAL NOT NULL,
			summary TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating memories table: %w", err)
	}

	if _, err := db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_memories_created_at ON memories(created_at)`,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating created_at index: %w", err)
	}

	// vec0 virtual table for KNN queries, rowid-aligned with memories.id.
	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS memory_embeddings USING vec0(embedding float[%d])`,
		c.Dimensions,
	)
	if _, err := db.Exec(createVec); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	logger.Info("sqlite-vec memory store initialized",
		zap.String("db_path", c.DBPath),
		zap.Uint("dimensions", c.Dimensions),
		zap.String("vec_version", vecVersion),
	)

	return &Store{
		db:         db,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// deserializeFloat32 converts a little-endian byte slice back to a float32 slice.
func deserializeFloat32(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d: must be divisible by 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// Upsert inserts or replaces a record by ID.
func (s *Store) Upsert(ctx context.Context, record *memory.MemoryRecord) error {
	if uint(len(record.Embedding)) != s.dimensions {
		return fmt.Errorf("%w: got %d, want %d",
			memory.ErrDimensionMismatch, len(record.Embedding), s.dimensions)
	}

	interactionJSON, err := json.Marshal(record.Interaction)
	if err != nil {
		return fmt.Errorf("serializing interaction for record %d: %w", record.ID, err)
	}
	charactersJSON, err := json.Marshal(record.CharactersInvolved)
	if err != nil {
		return fmt.Errorf("serializing characters for record %d: %w", record.ID, err)
	}
	locationsJSON, err := json.Marshal(record.LocationsInvolved)
	if err != nil {
		return fmt.Errorf("serializing locations for record %d: %w", record.ID, err)
	}
	plotJSON, err := json.Marshal(record.PlotElements)
	if err != nil {
		return fmt.Errorf("serializing plot elements for record %d: %w", record.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO memories
			(id, content, created_at, interaction, characters, locations, plot_elements, importance, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		int64(record.ID),
		record.Content,
		record.CreatedAt.Unix(),
		string(interactionJSON),
		string(charactersJSON),
		string(locationsJSON),
		string(plotJSON),
		record.Importance,
		record.Summary,
	); err != nil {
		return fmt.Errorf("upserting record %d: %w", record.ID, err)
	}

	// vec0 does not support UPDATE, so replace via DELETE + INSERT.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM memory_embeddings WHERE rowid = ?`, int64(record.ID),
	); err != nil {
		return fmt.Errorf("deleting old embedding for record %d: %w", record.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO memory_embeddings(rowid, embedding) VALUES (?, ?)`,
		int64(record.ID), serializeFloat32(record.Embedding),
	); err != nil {
		return fmt.Errorf("inserting embedding for record %d: %w", record.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("record upserted", zap.Uint64("id", record.ID))

	return nil
}

// Search finds the topK records most similar to queryVector. Filters are
// applied in Go after a widened KNN pass.
func (s *Store) Search(ctx context.Context, queryVector []float32, topK int, filter *memory.Filter) ([]memory.SearchResult, error) {
	if topK <= 0 {
		topK = memory.DefaultRetrieveLimit
	}

	k := topK
	if !filter.Empty() {
		k = topK * filterCandidateMultiplier
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			m.id, m.content, m.created_at, m.interaction,
			m.characters, m.locations, m.plot_elements,
			m.importance, m.summary,
			me.distance
		FROM memory_embeddings me
		INNER JOIN memories m ON m.id = me.rowid
		WHERE me.embedding MATCH ?
			AND me.k = ?
		ORDER BY me.distance
	`, serializeFloat32(queryVector), k)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var results []memory.SearchResult
	for rows.Next() {
		var distance float64
		record, err := scanRecord(rows, &distance)
		if err != nil {
			return nil, err
		}

		if !memory.MatchesFilter(record, filter) {
			continue
		}

		results = append(results, memory.SearchResult{
			Record: record,
			// Lower distance means higher similarity.
			Score: float32(1.0 / (1.0 + distance)),
		})
		if len(results) == topK {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	s.logger.Debug("searched memories", zap.Int("results", len(results)))

	return results, nil
}

// Recent returns the n most recent records, oldest first. SQLite has a real
// created_at index, so this is a direct ordered query with no candidate cap.
func (s *Store) Recent(ctx context.Context, n int) ([]*memory.MemoryRecord, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, content, created_at, interaction,
			characters, locations, plot_elements,
			importance, summary
		FROM memories
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("querying recent records: %w", err)
	}
	defer rows.Close()

	var records []*memory.MemoryRecord
	for rows.Next() {
		record, err := scanRecord(rows, nil)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recent records: %w", err)
	}

	// Reverse into chronological order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return records, nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanRecord reads one row into a MemoryRecord. When distance is non-nil the
// row is expected to carry a trailing distance column.
func scanRecord(rows *sql.Rows, distance *float64) (*memory.MemoryRecord, error) {
	var (
		id                                      int64
		content, summary                        string
		createdAt                               int64
		interactionJSON                         string
		charactersJSON, locationsJSON, plotJSON string
		importance                              float64
	)

	dest := []any{
		&id, &content, &createdAt, &interactionJSON,
		&charactersJSON, &locationsJSON, &plotJSON,
		&importance, &summary,
	}
	if distance != nil {
		dest = append(dest, distance)
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scanning record row: %w", err)
	}

	record := &memory.MemoryRecord{
		ID:         uint64(id),
		Content:    content,
		CreatedAt:  time.Unix(createdAt, 0).UTC(),
		Importance: importance,
		Summary:    summary,
	}

	var rec interaction.Record
	if err := json.Unmarshal([]byte(interactionJSON), &rec); err != nil {
		return nil, fmt.Errorf("parsing interaction for record %d: %w", id, err)
	}
	record.Interaction = rec

	if err := json.Unmarshal([]byte(charactersJSON), &record.CharactersInvolved); err != nil {
		return nil, fmt.Errorf("parsing characters for record %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(locationsJSON), &record.LocationsInvolved); err != nil {
		return nil, fmt.Errorf("parsing locations for record %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(plotJSON), &record.PlotElements); err != nil {
		return nil, fmt.Errorf("parsing plot elements for record %d: %w", id, err)
	}

	return record, nil
}
