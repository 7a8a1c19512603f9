package service

import (
	"context"
	"strings"

	"FProject/logger"
	fbmodel "FProject/module/feedback/model"

	"go.uber.org/zap"
)

// Kind 一条进站消息的分类结果（即状态机的转移标签）。
type Kind int

const (
	KindIgnoreSelf Kind = iota
	KindIgnoreNonPrivate
	KindStart
	KindDefineEnter
	KindDefineConfirm
	KindDefineNewQuestion
	KindRemoveEnter
	KindRemoveTurn
	KindList
	KindAnswer
	KindUnknownAdmin
	KindUnknownUser
)

func (k Kind) String() string {
	switch k {
	case KindIgnoreSelf:
		return "ignore-self"
	case KindIgnoreNonPrivate:
		return "ignore-non-private"
	case KindStart:
		return "start"
	case KindDefineEnter:
		return "questions-define-enter"
	case KindDefineConfirm:
		return "questions-define-confirm"
	case KindDefineNewQuestion:
		return "questions-define-new"
	case KindRemoveEnter:
		return "questions-remove-enter"
	case KindRemoveTurn:
		return "questions-remove-turn"
	case KindList:
		return "list"
	case KindAnswer:
		return "answer"
	case KindUnknownAdmin:
		return "unknown-admin"
	case KindUnknownUser:
		return "unknown-user"
	}
	return "unknown"
}

// ConvState 分类所需的会话快照（全部来自存储，进程可随时重启）。
type ConvState struct {
	IsSelf   bool
	IsAdmin  bool
	Wizard   fbmodel.WizardStatus // 发送者自己的向导状态
	HasAsked bool                 // 发送者是否有 asked 状态的队列条目
}

// Classify 分类进站消息。匹配按声明顺序，第一条命中生效；
// 这个顺序本身就是状态机，调整顺序等于改语义。
func Classify(in Inbound, st ConvState) Kind {
	text := strings.TrimSpace(in.Text)
	switch {
	case st.IsSelf:
		return KindIgnoreSelf
	case !in.Private:
		return KindIgnoreNonPrivate
	case strings.HasPrefix(text, "start") && st.IsAdmin:
		return KindStart
	case strings.HasPrefix(text, "questions define") && st.IsAdmin:
		return KindDefineEnter
	case st.Wizard == fbmodel.WizardDefinePending && st.IsAdmin:
		return KindDefineConfirm
	case st.Wizard == fbmodel.WizardDefineNew && st.IsAdmin:
		return KindDefineNewQuestion
	case strings.HasPrefix(text, "questions remove") && st.IsAdmin:
		return KindRemoveEnter
	case st.Wizard == fbmodel.WizardRemovePending && st.IsAdmin:
		return KindRemoveTurn
	case strings.HasPrefix(text, "list"):
		return KindList
	case st.HasAsked:
		return KindAnswer
	case st.IsAdmin:
		return KindUnknownAdmin
	default:
		return KindUnknownUser
	}
}

type handlerFunc func(ctx context.Context, in Inbound) error

// Bot 会话调度器：每条进站私聊消息走一遍分类，再派给唯一的处理器。
type Bot struct {
	selfID   string
	store    Store
	sender   Sender
	resolver Resolver
	notify   NotifyMode

	handlers map[Kind]handlerFunc
}

func NewBot(selfID string, store Store, sender Sender, resolver Resolver, notify NotifyMode) *Bot {
	b := &Bot{
		selfID:   selfID,
		store:    store,
		sender:   sender,
		resolver: resolver,
		notify:   notify,
		handlers: make(map[Kind]handlerFunc),
	}
	b.register(KindStart, b.handleStart)
	b.register(KindDefineEnter, b.handleDefineEnter)
	b.register(KindDefineConfirm, b.handleDefineConfirm)
	b.register(KindDefineNewQuestion, b.handleDefineNewQuestion)
	b.register(KindRemoveEnter, b.handleRemoveEnter)
	b.register(KindRemoveTurn, b.handleRemoveTurn)
	b.register(KindList, b.handleList)
	b.register(KindAnswer, b.handleAnswer)
	b.register(KindUnknownAdmin, b.handleUnknownAdmin)
	b.register(KindUnknownUser, b.handleUnknownUser)
	return b
}

func (b *Bot) register(k Kind, h handlerFunc) { b.handlers[k] = h }

// Handle 处理一条进站消息到完成（含全部存储读写和出站发送）。
// 错误不向外抛：这里是单条消息的边界。
func (b *Bot) Handle(ctx context.Context, in Inbound) {
	st, err := b.snapshot(ctx, in)
	if err != nil {
		logger.Errorf("dispatcher: state snapshot failed sender=%s err=%v", in.SenderID, err)
		return
	}
	kind := Classify(in, st)

	// 每次分类都记日志（仅观测用）
	logger.Info("dispatch",
		zap.String("kind", kind.String()),
		zap.String("sender", in.SenderID),
		zap.String("text", in.Text),
	)

	h, ok := b.handlers[kind]
	if !ok {
		// ignore 类没有处理器
		return
	}
	if err := h(ctx, in); err != nil {
		logger.Errorf("dispatcher: handler %s failed sender=%s err=%v", kind, in.SenderID, err)
	}
}

func (b *Bot) snapshot(ctx context.Context, in Inbound) (ConvState, error) {
	st := ConvState{IsSelf: in.SenderID == b.selfID}
	if st.IsSelf {
		return st, nil
	}
	st.IsAdmin = b.resolver.IsAdmin(ctx, in.SenderID)

	wiz, err := b.store.GetWizard(ctx, in.SenderID)
	if err != nil {
		return st, err
	}
	st.Wizard = wiz

	asked, err := b.store.AskedEntry(ctx, in.SenderID)
	if err != nil {
		return st, err
	}
	st.HasAsked = asked != nil
	return st, nil
}

// send 出站发送：失败只记日志，不影响已提交的写入
func (b *Bot) send(ctx context.Context, userID, text string) {
	if err := b.sender.SendText(ctx, userID, text); err != nil {
		logger.Warnf("send failed user=%s err=%v", userID, err)
	}
}

func (b *Bot) handleUnknownAdmin(ctx context.Context, in Inbound) error {
	b.send(ctx, in.SenderID, msgNotACommandAdmin)
	return nil
}

func (b *Bot) handleUnknownUser(ctx context.Context, in Inbound) error {
	b.send(ctx, in.SenderID, msgNotACommandNotAdmin)
	return nil
}
