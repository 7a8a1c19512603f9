package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	stderrors "errors"

	fbmodel "FProject/module/feedback/model"
	"FProject/tools/errs"
	"FProject/tools/ids"
)

// handleStart 管理员发起一次反馈会话：start <giver> <receiver>。
// giver/receiver 都可能展开成角色组；对每个 giver≠receiver 的组合，
// 按当前每条问题入队一条义务，然后对每个不同的 giver 推进一次队列。
func (b *Bot) handleStart(ctx context.Context, in Inbound) error {
	fields := strings.Fields(in.Text)
	if len(fields) != 3 {
		b.send(ctx, in.SenderID, msgWrongFormat+" "+msgStartUsage)
		return nil
	}

	givers, giverLabel, err := b.resolver.Resolve(ctx, fields[1])
	if err != nil {
		return b.replyResolveErr(ctx, in.SenderID, err)
	}
	receivers, receiverLabel, err := b.resolver.Resolve(ctx, fields[2])
	if err != nil {
		return b.replyResolveErr(ctx, in.SenderID, err)
	}

	questions, err := b.store.ListQuestions(ctx)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		b.send(ctx, in.SenderID, msgNoQuestions)
		return nil
	}

	now := time.Now().UnixMilli()
	var entries []fbmodel.AskQueueEntry
	seenGiver := make(map[string]bool)
	var giverOrder []string
	for _, g := range givers {
		for _, r := range receivers {
			if g.ID == r.ID {
				continue // 不给自己提反馈
			}
			for _, q := range questions {
				entries = append(entries, fbmodel.AskQueueEntry{
					EntryID:         ids.GenerateString(),
					GiverID:         g.ID,
					GiverNick:       g.Nick,
					ReceiverID:      r.ID,
					ReceiverNick:    r.Nick,
					QuestionContent: q.Content,
					Status:          fbmodel.AskStatusToAsk,
					CreatedAtMS:     now,
				})
			}
			if !seenGiver[g.ID] {
				seenGiver[g.ID] = true
				giverOrder = append(giverOrder, g.ID)
			}
		}
	}
	if err := b.store.Enqueue(ctx, entries); err != nil {
		return err
	}

	for _, giverID := range giverOrder {
		if err := b.advanceQueue(ctx, giverID, true); err != nil {
			return err
		}
	}

	b.send(ctx, in.SenderID, fmt.Sprintf(msgStartConfirmed, giverLabel, receiverLabel))
	return nil
}

// advanceQueue 推进某个 giver 的队列：取最早的 to-ask，
// 发问题文本（greet=true 时附开场白），再翻成 asked。
// giver 已有 asked 条目时不动——全局至多一条 asked 的硬约束在这里。
func (b *Bot) advanceQueue(ctx context.Context, giverID string, greet bool) error {
	asked, err := b.store.AskedEntry(ctx, giverID)
	if err != nil {
		return err
	}
	if asked != nil {
		return nil
	}

	next, err := b.store.NextToAsk(ctx, giverID)
	if err != nil {
		return err
	}
	if next == nil {
		return nil // 队列空，giver 没有待办
	}

	text := next.QuestionContent
	if greet {
		text = fmt.Sprintf(msgAskForFeedback, next.ReceiverNick) + "\n" + text
	}
	b.send(ctx, giverID, text)

	return b.store.MarkAsked(ctx, next.EntryID)
}

// handleAnswer 接收 giver 的自由文本回答：
// 追加反馈 → 删除已消费条目 → 回执 → 选配通知 receiver → 继续推进队列。
func (b *Bot) handleAnswer(ctx context.Context, in Inbound) error {
	entry, err := b.store.AskedEntry(ctx, in.SenderID)
	if err != nil {
		return err
	}
	if entry == nil {
		// 分类和处理之间条目消失（并发消费），按未知命令兜底
		return b.handleUnknownUser(ctx, in)
	}

	fb := fbmodel.FeedbackEntry{
		GiverID:         entry.GiverID,
		GiverNick:       entry.GiverNick,
		QuestionContent: entry.QuestionContent,
		Message:         in.Text,
		Timestamp:       time.Now(),
	}
	if err := b.store.AppendFeedback(ctx, entry.ReceiverID, entry.ReceiverNick, fb); err != nil {
		return err
	}
	if err := b.store.DeleteEntry(ctx, entry.EntryID); err != nil {
		return err
	}

	b.send(ctx, in.SenderID, fmt.Sprintf(msgFeedbackConfirmed, entry.ReceiverNick, in.Text))

	switch b.notify {
	case NotifyFact:
		b.send(ctx, entry.ReceiverID, msgNewFeedback)
	case NotifyDisclose:
		b.send(ctx, entry.ReceiverID, fmt.Sprintf(msgNewFeedbackDisclosed, in.Text))
	}

	return b.advanceQueue(ctx, in.SenderID, false)
}

// replyResolveErr 解析失败原样回给管理员；其他错误继续往上抛
func (b *Bot) replyResolveErr(ctx context.Context, adminID string, err error) error {
	var ce *errs.CodeError
	if stderrors.As(err, &ce) && ce.Code == errs.CodeTargetNotFound {
		b.send(ctx, adminID, ce.Msg)
		return nil
	}
	return err
}
