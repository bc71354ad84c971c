package telegram

// Processing guard: the pending-context protocol assumes each utterance is
// handled to completion before the user's next one starts, so turns from the
// same user are never processed concurrently.
func (h *Handler) startProcessing(userID int64) bool {
	h.processingMu.Lock()
	defer h.processingMu.Unlock()
	if h.processing == nil {
		h.processing = make(map[int64]bool)
	}
	if h.processing[userID] {
		return false
	}
	h.processing[userID] = true
	return true
}

func (h *Handler) endProcessing(userID int64) {
	h.processingMu.Lock()
	delete(h.processing, userID)
	h.processingMu.Unlock()
}

// runGuarded releases the guard when fn finishes, panics included.
func (h *Handler) runGuarded(userID int64, fn func()) {
	defer h.endProcessing(userID)
	fn()
}
