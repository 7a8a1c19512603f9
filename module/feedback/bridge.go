package feedback

import (
	"context"
	"time"

	fbservice "FProject/module/feedback/service"
	"FProject/service/chat"
	"FProject/service/natsx"
	"FProject/tools/ids"
)

// NatsSender 把出站文本发布到总线，由持有目标连接的网关写出。
// 实现 service.Sender。
type NatsSender struct {
	producer *natsx.NatsxProducer
	botID    string
}

func NewNatsSender(producer *natsx.NatsxProducer, botID string) *NatsSender {
	return &NatsSender{producer: producer, botID: botID}
}

func (s *NatsSender) SendText(ctx context.Context, userID, text string) error {
	f := chat.Frame{
		Type:    chat.FrameText,
		MsgID:   ids.GenerateString(),
		From:    s.botID,
		To:      userID,
		Private: true,
		Content: text,
		TS:      time.Now().UnixMilli(),
	}
	return s.producer.Publish(chat.SubjectOutbound, f.Marshal())
}

// InboundHandler 总线进站帧 → 调度器。给 NatsxConsumer 的队列组订阅用。
func InboundHandler(bot *fbservice.Bot, timeout time.Duration) natsx.MsgHandler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return func(data []byte) error {
		f, err := chat.ParseFrame(data)
		if err != nil {
			return err
		}
		if f.Type != chat.FrameText {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		bot.Handle(ctx, fbservice.Inbound{
			SenderID: f.From,
			Text:     f.Content,
			Private:  f.Private,
		})
		return nil
	}
}
