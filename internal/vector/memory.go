package vector

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used when no database path is configured,
// and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	indexes map[string]*memIndex
}

type memIndex struct {
	info    IndexInfo
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{indexes: make(map[string]*memIndex)}
}

func (s *MemoryStore) CreateIndex(name string, dimension int, metric Metric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[name]; ok {
		return ErrIndexExists
	}
	s.indexes[name] = &memIndex{
		info:    IndexInfo{Name: name, Dimension: dimension, Metric: metric, CreatedAt: time.Now()},
		records: make(map[string]Record),
	}
	return nil
}

func (s *MemoryStore) DeleteIndex(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[name]; !ok {
		return ErrIndexNotFound
	}
	delete(s.indexes, name)
	return nil
}

func (s *MemoryStore) ListIndexes() ([]IndexInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]IndexInfo, 0, len(s.indexes))
	for _, idx := range s.indexes {
		infos = append(infos, idx.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (s *MemoryStore) Upsert(index string, records []Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[index]
	if !ok {
		return 0, ErrIndexNotFound
	}
	for _, rec := range records {
		if len(rec.Values) != idx.info.Dimension {
			return 0, ErrDimensionMismatch
		}
	}
	for _, rec := range records {
		idx.records[rec.ID] = rec
	}
	return len(records), nil
}

func (s *MemoryStore) Query(index string, values []float64, topK int, filter map[string]any) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indexes[index]
	if !ok {
		return nil, ErrIndexNotFound
	}
	if len(values) != idx.info.Dimension {
		return nil, ErrDimensionMismatch
	}

	matches := make([]Match, 0, len(idx.records))
	for _, rec := range idx.records {
		if len(filter) > 0 && !matchesFilter(rec.Metadata, filter) {
			continue
		}
		matches = append(matches, Match{
			ID:       rec.ID,
			Score:    score(idx.info.Metric, values, rec.Values),
			Metadata: rec.Metadata,
		})
	}
	metric := idx.info.Metric
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

func (s *MemoryStore) Fetch(index string, ids []string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indexes[index]
	if !ok {
		return nil, ErrIndexNotFound
	}
	var records []Record
	for _, id := range ids {
		if rec, ok := idx.records[id]; ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (s *MemoryStore) Delete(index string, ids []string, filter map[string]any, all bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[index]
	if !ok {
		return 0, ErrIndexNotFound
	}

	switch {
	case all:
		n := len(idx.records)
		idx.records = make(map[string]Record)
		return n, nil
	case len(ids) > 0:
		n := 0
		for _, id := range ids {
			if _, ok := idx.records[id]; ok {
				delete(idx.records, id)
				n++
			}
		}
		return n, nil
	default:
		n := 0
		for id, rec := range idx.records {
			if matchesFilter(rec.Metadata, filter) {
				delete(idx.records, id)
				n++
			}
		}
		return n, nil
	}
}

func (s *MemoryStore) Stats(index string) (*IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indexes[index]
	if !ok {
		return nil, ErrIndexNotFound
	}
	return &IndexStats{
		Name:        idx.info.Name,
		Dimension:   idx.info.Dimension,
		Metric:      idx.info.Metric,
		VectorCount: len(idx.records),
	}, nil
}

func (s *MemoryStore) Close() error { return nil }
