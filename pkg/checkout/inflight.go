package checkout

import "sync"

// inflight tracks keys with a request in progress. It rejects duplicates instead of
// queueing them.
type inflight struct {
	keys sync.Map
}

// acquire marks key busy and reports whether it was free.
func (f *inflight) acquire(key string) bool {
	_, busy := f.keys.LoadOrStore(key, struct{}{})
	return !busy
}

func (f *inflight) release(key string) {
	f.keys.Delete(key)
}
