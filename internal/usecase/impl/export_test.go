package impl

// Pending returns how many notifications wait on the owner's answer.
func (g *desktopGate) Pending(owner string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.pending[owner])
}
