package session

import (
	"context"
	"sync"
	"time"

	"hotpot-concierge/internal/pkg/common"

	"go.uber.org/zap"
)

type memoryEntry struct {
	state      *State
	expiresAt  time.Time
	lastAccess time.Time
}

// MemoryStore 內存 session 存儲，帶 TTL 與定期清理；測試與單機部署默認實現
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	stop    chan struct{}
}

// NewMemoryStore 創建內存存儲並啟動過期清理協程。
// ttl ≤ 0 表示不過期；cleanupInterval ≤ 0 時不啟動清理
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	m := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	if ttl > 0 && cleanupInterval > 0 {
		go m.startCleanup(cleanupInterval)
	}
	return m
}

var _ Store = (*MemoryStore)(nil)

// Get 獲取 session 狀態
func (m *MemoryStore) Get(_ context.Context, sessionID string) (*State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[sessionID]
	if !ok {
		return nil, false, nil
	}
	if m.ttl > 0 && time.Now().After(e.expiresAt) {
		delete(m.entries, sessionID)
		common.LogSessionEvent("expired", sessionID)
		return nil, false, nil
	}
	e.lastAccess = time.Now()
	// 返回拷貝：調用方未 Set 的修改不得透過共享指針洩漏進存儲
	return e.state.Clone(), true, nil
}

// Set 寫入 session 狀態並刷新 TTL
func (m *MemoryStore) Set(_ context.Context, sessionID string, state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.entries[sessionID] = &memoryEntry{
		state:      state.Clone(),
		expiresAt:  now.Add(m.ttl),
		lastAccess: now,
	}
	return nil
}

// ClearAll 清空全部 session
func (m *MemoryStore) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*memoryEntry)
	return nil
}

// Close 停止清理協程
func (m *MemoryStore) Close() {
	close(m.stop)
}

func (m *MemoryStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			now := time.Now()
			evicted := 0
			m.mu.Lock()
			for id, e := range m.entries {
				if now.After(e.expiresAt) {
					delete(m.entries, id)
					evicted++
				}
			}
			m.mu.Unlock()
			if evicted > 0 {
				common.LogInfo("Session 清理完成",
					zap.Int("清除數", evicted),
				)
			}
		}
	}
}
