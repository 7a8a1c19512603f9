package natsx

import (
	"time"

	"FProject/logger"
	"FProject/tools/safe"

	"github.com/nats-io/nats.go"
)

// MsgHandler 业务处理函数；返回 error 仅用于日志，NATS core 不重投
type MsgHandler func(data []byte) error

// NatsxConsumer 消费端
type NatsxConsumer struct {
	c    *NatsxClient
	idem IdemStore // 可为 nil：不做去重
}

func NewNatsxConsumer(c *NatsxClient, idem IdemStore) *NatsxConsumer {
	return &NatsxConsumer{c: c, idem: idem}
}

// SubscribeQueue 队列组订阅：同组内一条消息只投给一个实例
func (s *NatsxConsumer) SubscribeQueue(subject, queue string, h MsgHandler) error {
	sub, err := s.c.nc.QueueSubscribe(subject, queue, func(m *nats.Msg) {
		s.handle(subject, m, h)
	})
	if err != nil {
		return err
	}
	s.c.track(sub)
	return nil
}

// Subscribe 普通订阅（广播）
func (s *NatsxConsumer) Subscribe(subject string, h MsgHandler) error {
	sub, err := s.c.nc.Subscribe(subject, func(m *nats.Msg) {
		s.handle(subject, m, h)
	})
	if err != nil {
		return err
	}
	s.c.track(sub)
	return nil
}

func (s *NatsxConsumer) handle(subject string, m *nats.Msg, h MsgHandler) {
	// 去重：以 Nats-Msg-Id 头为幂等键
	if s.idem != nil {
		if id := m.Header.Get(nats.MsgIdHdr); id != "" {
			seen, err := s.idem.SeenOnce(id, 10*time.Minute)
			if err == nil && seen {
				logger.Debug("natsx: duplicate message dropped")
				return
			}
		}
	}
	// 同一订阅的回调由驱动串行派发：这里保持同步执行，
	// 保证同链路消息处理完一条再取下一条
	defer safe.Recover("natsx-handler")
	if err := h(m.Data); err != nil {
		logger.Errorf("natsx: handler error subject=%s err=%v", subject, err)
	}
}

// PublishWithID 带幂等ID发布（与 SubscribeQueue 的去重配对使用）
func (p *NatsxProducer) PublishWithID(subject, msgID string, data []byte) error {
	m := nats.NewMsg(subject)
	m.Header.Set(nats.MsgIdHdr, msgID)
	m.Data = data
	return p.c.nc.PublishMsg(m)
}
