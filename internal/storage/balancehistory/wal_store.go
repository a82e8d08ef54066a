// Package balancehistory persists the grand total of completed report
// runs in an append-only WAL for later trend analysis and charting.
package balancehistory

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/binfolio/internal/domain"
)

const (
	defaultHistoryDir   = "./wal/history"
	historySegmentLimit = 1000
	historyMaxSegments  = 100
	historyKey          = "balance_total"
)

// WALStore is an append-only balance history record. Entries are never
// rewritten; each append gets the next WAL index.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore opens (or creates) the history WAL under dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultHistoryDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "history_",
		SegmentThreshold: historySegmentLimit,
		MaxSegments:      historyMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init balance history WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append writes one history point.
func (s *WALStore) Append(point domain.HistoryPoint) error {
	if s == nil || s.wal == nil {
		return errors.New("balance history store is not initialized")
	}

	payload, err := json.Marshal(point)
	if err != nil {
		return errors.Wrap(err, "failed to marshal history point")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Write(s.wal.CurrentIndex()+1, historyKey, payload)
}

// PointsAfter returns all history points written after the provided WAL
// index, in append order.
func (s *WALStore) PointsAfter(index uint64) ([]domain.HistoryRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("balance history store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.HistoryRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, historyKey) {
			continue
		}
		var point domain.HistoryPoint
		if err := json.Unmarshal(payload, &point); err != nil {
			return nil, errors.Wrap(err, "failed to decode history point")
		}
		records = append(records, domain.HistoryRecord{Index: idx, Point: point})
	}
	return records, nil
}

// All returns the complete history.
func (s *WALStore) All() ([]domain.HistoryRecord, error) {
	return s.PointsAfter(0)
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
