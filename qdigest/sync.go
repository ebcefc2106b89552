package qdigest

import "sync"

// Sync serializes access to a QDigest: mutators hold an exclusive lock while
// queries share a read lock.
type Sync struct {
	mu sync.RWMutex
	d  *QDigest
}

// NewSync wraps a digest. The caller must not use d directly afterwards.
func NewSync(d *QDigest) *Sync {
	return &Sync{d: d}
}

func (s *Sync) Insert(key []byte, weight uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.d.Insert(key, weight)
}

func (s *Sync) Compress(k uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.d.Compress(k)
}

func (s *Sync) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.d.Reset()
}

func (s *Sync) Quantile(p float64) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.d.Quantile(p)
}

func (s *Sync) Boundaries() [][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.d.Boundaries()
}

func (s *Sync) Buckets() []Bucket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.d.Buckets()
}

func (s *Sync) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.d.Stats()
}

// Snapshot returns a private copy that can be queried without holding any lock.
func (s *Sync) Snapshot() *QDigest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.d.Clone()
}
