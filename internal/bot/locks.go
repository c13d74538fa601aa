package bot

import "sync"

// chatLocks serializes event handling per chat id. The webhook transport
// does not guarantee non-overlapping delivery for one chat, so the whole
// read-decide-write-send cycle of an event runs under that chat's lock.
// Chats never block each other.
type chatLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newChatLocks() *chatLocks {
	return &chatLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *chatLocks) lock(chatID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[chatID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[chatID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
