//go:build unit

package memory

// LockEntries reports how many listings currently have a lock entry.
func (s *Store) LockEntries() int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.locks)
}
