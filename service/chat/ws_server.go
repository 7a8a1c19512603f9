package chat

import (
	"net/http"
	"time"

	"FProject/logger"
	"FProject/service/natsx"
	"FProject/tools/ids"
	"FProject/tools/safe"
	"FProject/tools/security"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	maxMsgSize = 8 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 网关自身不做 Origin 限制，交给前置层
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server 网关：客户端 websocket ↔ NATS 总线。
// 进站私聊帧发布到 SubjectInbound；出站帧由 HandleOutbound 写回属主连接。
type Server struct {
	connMgr  *ConnManager
	producer *natsx.NatsxProducer
	jwtOpts  security.Options
	botID    string
}

func NewServer(connMgr *ConnManager, producer *natsx.NatsxProducer, jwtOpts security.Options, botID string) *Server {
	return &Server{connMgr: connMgr, producer: producer, jwtOpts: jwtOpts, botID: botID}
}

func (s *Server) ConnMgr() *ConnManager { return s.connMgr }

// HandleWS gin 路由入口：?token=<jwt> 鉴权后升级连接。
func (s *Server) HandleWS(c *gin.Context) {
	userID, err := security.Verify(s.jwtOpts, c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("ws upgrade failed user=%s err=%v", userID, err)
		return
	}

	wc, old := s.connMgr.Add(userID, conn)
	if old != nil {
		old.Close() // 新连接顶掉旧连接
	}
	logger.Infof("ws connected user=%s remote=%s", userID, wc.Remote)

	safe.Go("ws-write-pump", func() { s.writePump(wc) })
	safe.Go("ws-read-loop", func() { s.readLoop(wc) })
}

// readLoop 逐帧读取；同一连接串行处理，读完一条才取下一条
func (s *Server) readLoop(wc *WsConn) {
	defer func() {
		s.connMgr.Remove(wc)
		wc.Close()
		logger.Infof("ws disconnected user=%s", wc.UserID)
	}()

	wc.Conn.SetReadLimit(maxMsgSize)
	_ = wc.Conn.SetReadDeadline(time.Now().Add(pongWait))
	wc.Conn.SetPongHandler(func(string) error {
		return wc.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := wc.Conn.ReadMessage()
		if err != nil {
			return
		}
		f, err := ParseFrame(raw)
		if err != nil {
			logger.Warnf("ws bad frame user=%s err=%v", wc.UserID, err)
			continue
		}
		switch f.Type {
		case FramePing:
			pong := Frame{Type: FramePong, TS: time.Now().UnixMilli()}
			_ = s.connMgr.Send(wc.UserID, pong.Marshal())
		case FrameText:
			s.forwardText(wc, f)
		default:
			logger.Debug("ws frame ignored: " + f.Type)
		}
	}
}

// forwardText 补齐来源信息后发布到总线。
// From 永远以连接身份为准，客户端不能冒充别人。
func (s *Server) forwardText(wc *WsConn, f *Frame) {
	f.From = wc.UserID
	if f.MsgID == "" {
		f.MsgID = ids.GenerateString()
	}
	f.TS = time.Now().UnixMilli()
	// 发给机器人（或没写收件人）算私聊；其他走频道语义
	f.Private = f.To == "" || f.To == s.botID

	if err := s.producer.PublishWithID(SubjectInbound, f.MsgID, f.Marshal()); err != nil {
		logger.Errorf("ws publish inbound failed user=%s err=%v", wc.UserID, err)
		return
	}
	ack := Frame{Type: FrameAck, MsgID: f.MsgID, TS: f.TS}
	_ = s.connMgr.Send(wc.UserID, ack.Marshal())
}

func (s *Server) writePump(wc *WsConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-wc.SendChan:
			_ = wc.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = wc.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wc.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = wc.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wc.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// HandleOutbound 总线出站帧 → 属主连接。
// 收件人离线时丢弃（at-least-once 语义，只记日志）。
func (s *Server) HandleOutbound(data []byte) error {
	f, err := ParseFrame(data)
	if err != nil {
		return err
	}
	if err := s.connMgr.Send(f.To, data); err != nil {
		logger.Warnf("outbound dropped to=%s err=%v", f.To, err)
	}
	return nil
}
