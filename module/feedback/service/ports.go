package service

import (
	"context"

	dirmodel "FProject/module/directory/model"
	fbmodel "FProject/module/feedback/model"
)

// Store 反馈存储的窄接口（mongo 实现见 module/feedback/store；
// 单测用内存假实现）。每个方法对应一次原子存储操作。
type Store interface {
	ListQuestions(ctx context.Context) ([]fbmodel.Question, error)
	AddQuestion(ctx context.Context, content string) (fbmodel.Question, error)
	RemoveQuestion(ctx context.Context, index int) (bool, error)

	Enqueue(ctx context.Context, entries []fbmodel.AskQueueEntry) error
	NextToAsk(ctx context.Context, giverID string) (*fbmodel.AskQueueEntry, error)
	AskedEntry(ctx context.Context, giverID string) (*fbmodel.AskQueueEntry, error)
	MarkAsked(ctx context.Context, entryID string) error
	DeleteEntry(ctx context.Context, entryID string) error

	AppendFeedback(ctx context.Context, receiverID, receiverNick string, e fbmodel.FeedbackEntry) error
	ListFeedback(ctx context.Context, receiverID string) (*fbmodel.FeedbackDoc, error)

	GetWizard(ctx context.Context, adminID string) (fbmodel.WizardStatus, error)
	UpsertWizard(ctx context.Context, adminID string, status fbmodel.WizardStatus) error
	ClearWizard(ctx context.Context, adminID string) error
}

// Sender 出站文本通道。发送失败只记日志，
// 不回滚之前已提交的存储写入（at-least-once）。
type Sender interface {
	SendText(ctx context.Context, userID, text string) error
}

// Resolver 目录解析（外部协作方，见 module/directory）。
type Resolver interface {
	Resolve(ctx context.Context, token string) ([]dirmodel.Recipient, string, error)
	IsAdmin(ctx context.Context, userID string) bool
}

// NotifyMode 答案提交后对 receiver 的通知策略
type NotifyMode string

const (
	NotifyOff      NotifyMode = "off"      // 不通知
	NotifyFact     NotifyMode = "notify"   // 只通知有新反馈
	NotifyDisclose NotifyMode = "disclose" // 连内容一起推
)

// Inbound 一条进站私聊消息。
type Inbound struct {
	SenderID string
	Text     string
	Private  bool
}
