package chat

import (
	"net"
	"sync"
	"time"

	"FProject/tools/errs"
	"FProject/tools/ids"

	"github.com/gorilla/websocket"
)

// WsConn 一条已认证的客户端连接。
type WsConn struct {
	SnowID string
	UserID string

	Conn   *websocket.Conn
	Remote net.Addr

	CreatedAt time.Time
	SendChan  chan []byte // 每连接独立发送队列

	closeOnce sync.Once
}

func (c *WsConn) Close() {
	c.closeOnce.Do(func() {
		close(c.SendChan)
		_ = c.Conn.Close()
	})
}

// ConnManager 用户 → 连接 的索引。同一用户重复连接时新连接顶掉旧连接。
type ConnManager struct {
	mu     sync.RWMutex
	byUser map[string]*WsConn
}

func NewConnManager() *ConnManager {
	return &ConnManager{byUser: make(map[string]*WsConn)}
}

// Add 注册连接；返回可能被顶掉的旧连接（调用方负责关闭）。
func (m *ConnManager) Add(userID string, conn *websocket.Conn) (*WsConn, *WsConn) {
	wc := &WsConn{
		SnowID:    ids.GenerateString(),
		UserID:    userID,
		Conn:      conn,
		Remote:    conn.RemoteAddr(),
		CreatedAt: time.Now(),
		SendChan:  make(chan []byte, 256),
	}
	m.mu.Lock()
	old := m.byUser[userID]
	m.byUser[userID] = wc
	m.mu.Unlock()
	return wc, old
}

// Remove 摘除连接（只摘自己，避免把后来者摘掉）。
func (m *ConnManager) Remove(wc *WsConn) {
	m.mu.Lock()
	if cur, ok := m.byUser[wc.UserID]; ok && cur.SnowID == wc.SnowID {
		delete(m.byUser, wc.UserID)
	}
	m.mu.Unlock()
}

// Get 按用户取在线连接。
func (m *ConnManager) Get(userID string) (*WsConn, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wc, ok := m.byUser[userID]
	return wc, ok
}

// Send 给在线用户投递一帧；离线返回错误，调用方决定丢弃策略。
func (m *ConnManager) Send(userID string, payload []byte) error {
	wc, ok := m.Get(userID)
	if !ok {
		return errs.New("user offline: " + userID)
	}
	select {
	case wc.SendChan <- payload:
		return nil
	default:
		return errs.New("send queue full: " + userID)
	}
}

// Count 在线连接数（健康检查用）。
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byUser)
}
