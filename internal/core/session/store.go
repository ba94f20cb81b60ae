package session

import "context"

// Store session 存儲契約。路由器對同一 id 的讀改寫由其本身序列化，
// 存儲實現只需保證單次 Get/Set 的一致性。
type Store interface {
	// Get 返回 session 狀態；不存在時第二個返回值為 false
	Get(ctx context.Context, sessionID string) (*State, bool, error)
	// Set 寫入 session 狀態
	Set(ctx context.Context, sessionID string, state *State) error
	// ClearAll 清空全部 session
	ClearAll(ctx context.Context) error
}
