package vector

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists vector indexes to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logrus.Infof("sqlite vector store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS indexes (
			name       TEXT PRIMARY KEY,
			dimension  INTEGER NOT NULL,
			metric     TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS vectors (
			index_name TEXT NOT NULL,
			id         TEXT NOT NULL,
			embedding  BLOB NOT NULL,
			metadata   TEXT,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (index_name, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vectors_index ON vectors(index_name)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) CreateIndex(name string, dimension int, metric Metric) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM indexes WHERE name = ?`, name).Scan(&exists); err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists > 0 {
		return ErrIndexExists
	}
	_, err := s.db.Exec(`INSERT INTO indexes (name, dimension, metric, created_at) VALUES (?,?,?,?)`,
		name, dimension, string(metric), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteIndex(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM indexes WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrIndexNotFound
	}
	if _, err := s.db.Exec(`DELETE FROM vectors WHERE index_name = ?`, name); err != nil {
		return fmt.Errorf("delete index vectors: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListIndexes() ([]IndexInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT name, dimension, metric, created_at FROM indexes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	defer rows.Close()

	var infos []IndexInfo
	for rows.Next() {
		var info IndexInfo
		var metric string
		var created int64
		if err := rows.Scan(&info.Name, &info.Dimension, &metric, &created); err != nil {
			return nil, fmt.Errorf("scan index: %w", err)
		}
		info.Metric = Metric(metric)
		info.CreatedAt = time.Unix(created, 0)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *SQLiteStore) indexInfo(name string) (*IndexInfo, error) {
	var info IndexInfo
	var metric string
	var created int64
	err := s.db.QueryRow(`SELECT name, dimension, metric, created_at FROM indexes WHERE name = ?`, name).
		Scan(&info.Name, &info.Dimension, &metric, &created)
	if err == sql.ErrNoRows {
		return nil, ErrIndexNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	info.Metric = Metric(metric)
	info.CreatedAt = time.Unix(created, 0)
	return &info, nil
}

func (s *SQLiteStore) Upsert(index string, records []Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.indexInfo(index)
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		if len(rec.Values) != info.Dimension {
			return 0, ErrDimensionMismatch
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	now := time.Now().Unix()
	for _, rec := range records {
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("marshal metadata: %w", err)
		}
		_, err = tx.Exec(`INSERT INTO vectors (index_name, id, embedding, metadata, created_at)
			VALUES (?,?,?,?,?)
			ON CONFLICT(index_name, id) DO UPDATE SET embedding=excluded.embedding,
				metadata=excluded.metadata, created_at=excluded.created_at`,
			index, rec.ID, encodeVector(rec.Values), string(meta), now)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("upsert vector %s: %w", rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return len(records), nil
}

func (s *SQLiteStore) Query(index string, values []float64, topK int, filter map[string]any) ([]Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.indexInfo(index)
	if err != nil {
		return nil, err
	}
	if len(values) != info.Dimension {
		return nil, ErrDimensionMismatch
	}

	rows, err := s.db.Query(`SELECT id, embedding, metadata FROM vectors WHERE index_name = ?`, index)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var id string
		var blob []byte
		var meta sql.NullString
		if err := rows.Scan(&id, &blob, &meta); err != nil {
			return nil, fmt.Errorf("scan vector: %w", err)
		}
		metadata := decodeMetadata(meta)
		if len(filter) > 0 && !matchesFilter(metadata, filter) {
			continue
		}
		matches = append(matches, Match{
			ID:       id,
			Score:    score(info.Metric, values, decodeVector(blob)),
			Metadata: metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	metric := info.Metric
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].ID < matches[j].ID
		}
		return better(metric, matches[i].Score, matches[j].Score)
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *SQLiteStore) Fetch(index string, ids []string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.indexInfo(index); err != nil {
		return nil, err
	}

	var records []Record
	for _, id := range ids {
		var blob []byte
		var meta sql.NullString
		err := s.db.QueryRow(`SELECT embedding, metadata FROM vectors WHERE index_name = ? AND id = ?`,
			index, id).Scan(&blob, &meta)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetch vector %s: %w", id, err)
		}
		records = append(records, Record{ID: id, Values: decodeVector(blob), Metadata: decodeMetadata(meta)})
	}
	return records, nil
}

func (s *SQLiteStore) Delete(index string, ids []string, filter map[string]any, all bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.indexInfo(index); err != nil {
		return 0, err
	}

	switch {
	case all:
		res, err := s.db.Exec(`DELETE FROM vectors WHERE index_name = ?`, index)
		if err != nil {
			return 0, fmt.Errorf("delete all vectors: %w", err)
		}
		n, _ := res.RowsAffected()
		return int(n), nil
	case len(ids) > 0:
		n := 0
		for _, id := range ids {
			res, err := s.db.Exec(`DELETE FROM vectors WHERE index_name = ? AND id = ?`, index, id)
			if err != nil {
				return n, fmt.Errorf("delete vector %s: %w", id, err)
			}
			if affected, _ := res.RowsAffected(); affected > 0 {
				n++
			}
		}
		return n, nil
	default:
		// Filter deletes need the metadata, so scan and match in Go.
		rows, err := s.db.Query(`SELECT id, metadata FROM vectors WHERE index_name = ?`, index)
		if err != nil {
			return 0, fmt.Errorf("scan for filter delete: %w", err)
		}
		var toDelete []string
		for rows.Next() {
			var id string
			var meta sql.NullString
			if err := rows.Scan(&id, &meta); err != nil {
				rows.Close()
				return 0, fmt.Errorf("scan vector: %w", err)
			}
			if matchesFilter(decodeMetadata(meta), filter) {
				toDelete = append(toDelete, id)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return 0, err
		}
		n := 0
		for _, id := range toDelete {
			if _, err := s.db.Exec(`DELETE FROM vectors WHERE index_name = ? AND id = ?`, index, id); err != nil {
				return n, fmt.Errorf("delete vector %s: %w", id, err)
			}
			n++
		}
		return n, nil
	}
}

func (s *SQLiteStore) Stats(index string) (*IndexStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.indexInfo(index)
	if err != nil {
		return nil, err
	}
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM vectors WHERE index_name = ?`, index).Scan(&count); err != nil {
		return nil, fmt.Errorf("count vectors: %w", err)
	}
	return &IndexStats{Name: info.Name, Dimension: info.Dimension, Metric: info.Metric, VectorCount: count}, nil
}

func (s *SQLiteStore) Close() error {
	logrus.Info("closing sqlite vector store")
	return s.db.Close()
}

// encodeVector packs a vector as little-endian float64 bytes.
func encodeVector(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeVector(blob []byte) []float64 {
	values := make([]float64, len(blob)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return values
}

func decodeMetadata(meta sql.NullString) map[string]any {
	if !meta.Valid || meta.String == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(meta.String), &m); err != nil {
		logrus.Warnf("corrupt vector metadata: %v", err)
		return nil
	}
	return m
}
