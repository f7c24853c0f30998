package roster

import "sync"

// SignatureMemo remembers, per deal, the last roster signature a sync was started for.
// Entries never expire; a process restart forgets them, which is safe since creates are guarded by DNI.
type SignatureMemo struct {
	mu   sync.Mutex
	last map[string]string // {dealID: signature}
}

func NewSignatureMemo() *SignatureMemo {
	return &SignatureMemo{last: make(map[string]string)}
}

// Processed tells whether a sync already completed, or is in flight, for this deal and signature.
func (m *SignatureMemo) Processed(dealID, signature string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	last, ok := m.last[dealID]
	return ok && last == signature
}

// Claim marks the signature as processed for the deal.
// Returns false, without changing anything, if it was already marked.
func (m *SignatureMemo) Claim(dealID, signature string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if last, ok := m.last[dealID]; ok && last == signature {
		return false
	}
	m.last[dealID] = signature
	return true
}

// Release forgets the deal's mark so a later trigger may retry, unless a newer signature replaced it.
func (m *SignatureMemo) Release(dealID, signature string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if last, ok := m.last[dealID]; ok && last == signature {
		delete(m.last, dealID)
	}
}

// Last returns the last signature marked for the deal.
func (m *SignatureMemo) Last(dealID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	last, ok := m.last[dealID]
	return last, ok
}
