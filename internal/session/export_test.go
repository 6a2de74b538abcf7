package session

// Listeners returns the number of registered listeners.
func (h *ActivityHub) Listeners() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.listeners)
}
