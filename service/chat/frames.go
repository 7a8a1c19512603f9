package chat

import "encoding/json"

// NATS subjects：网关和机器人核心之间的桥
const (
	SubjectInbound  = "feedback.inbound"  // 网关 → 核心（队列组消费）
	SubjectOutbound = "feedback.outbound" // 核心 → 网关（广播，连接属主写出）
	InboundQueue    = "feedback-core"
)

// 帧类型
const (
	FrameText = "text" // 私聊文本
	FramePing = "ping"
	FramePong = "pong"
	FrameAck  = "ack"
)

// Frame 网关 JSON 线协议。
type Frame struct {
	Type    string `json:"type"`
	MsgID   string `json:"msg_id,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Private bool   `json:"private,omitempty"`
	Content string `json:"content,omitempty"`
	TS      int64  `json:"ts,omitempty"`
}

func (f *Frame) Marshal() []byte {
	raw, _ := json.Marshal(f)
	return raw
}

func ParseFrame(raw []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
