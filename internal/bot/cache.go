package bot

import "sync"

// MemoryCache is the in-process SessionCache. Conversation state is
// transient by design: losing it only costs the user a restart of the
// questionnaire, never a duplicate durable record.
type MemoryCache struct {
	mu       sync.RWMutex
	sessions map[int64]*ChatSession
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{sessions: make(map[int64]*ChatSession)}
}

func (c *MemoryCache) Get(chatID int64) (*ChatSession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	session, ok := c.sessions[chatID]
	if !ok {
		return nil, false
	}
	copied := *session
	copied.Answers = append([]Answer(nil), session.Answers...)
	return &copied, true
}

func (c *MemoryCache) Put(session *ChatSession) {
	copied := *session
	copied.Answers = append([]Answer(nil), session.Answers...)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ChatID] = &copied
}

func (c *MemoryCache) Remove(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, chatID)
}
