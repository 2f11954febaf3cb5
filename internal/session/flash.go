package session

import "context"

// Flash kinds. Each kind is kept under its own session key.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flashes are the notices popped for a single render.
type Flashes struct {
	Success []string
	Error   []string
}

// Empty reports whether there is nothing to show.
func (f Flashes) Empty() bool {
	return len(f.Success) == 0 && len(f.Error) == 0
}

func flashKey(kind string) string {
	return "flash_" + kind
}

// AddFlash queues msg under kind for the next request that pops flashes.
func (m *Manager) AddFlash(ctx context.Context, kind, msg string) {
	key := flashKey(kind)
	existing, _ := m.Get(ctx, key).([]string)
	m.Put(ctx, key, append(existing, msg))
}

// PopFlashes returns the queued messages of kind and removes them.
func (m *Manager) PopFlashes(ctx context.Context, kind string) []string {
	msgs, _ := m.Pop(ctx, flashKey(kind)).([]string)
	return msgs
}

// Flashes pops every kind at once.
func (m *Manager) Flashes(ctx context.Context) Flashes {
	return Flashes{
		Success: m.PopFlashes(ctx, FlashSuccess),
		Error:   m.PopFlashes(ctx, FlashError),
	}
}
