package service

import (
	"context"
	"fmt"
	"strings"

	fbmodel "FProject/module/feedback/model"
)

// handleList 发送者查自己收到的反馈。
func (b *Bot) handleList(ctx context.Context, in Inbound) error {
	doc, err := b.store.ListFeedback(ctx, in.SenderID)
	if err != nil {
		return err
	}
	if doc == nil || len(doc.Entries) == 0 {
		b.send(ctx, in.SenderID, msgNoFeedbackYet)
		return nil
	}
	b.send(ctx, in.SenderID, renderFeedback(doc.Entries))
	return nil
}

// renderFeedback 渲染反馈列表。条目带问题时按问题分组
// （组序 = 问题首次出现的顺序，组内保持追加顺序），
// 否则平铺，始终是追加顺序。每行：nickname (timestamp): message
func renderFeedback(entries []fbmodel.FeedbackEntry) string {
	tagged := false
	for _, e := range entries {
		if e.QuestionContent != "" {
			tagged = true
			break
		}
	}

	var sb strings.Builder
	sb.WriteString("Your feedback:")
	if !tagged {
		for _, e := range entries {
			sb.WriteString("\n" + renderLine(e))
		}
		return sb.String()
	}

	var order []string
	groups := make(map[string][]fbmodel.FeedbackEntry)
	for _, e := range entries {
		key := e.QuestionContent
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}
	for _, q := range order {
		if q == "" {
			sb.WriteString("\n(other)")
		} else {
			sb.WriteString("\n" + q)
		}
		for _, e := range groups[q] {
			sb.WriteString("\n  " + renderLine(e))
		}
	}
	return sb.String()
}

func renderLine(e fbmodel.FeedbackEntry) string {
	return fmt.Sprintf("%s (%s): %s",
		e.GiverNick, e.Timestamp.Format("2006-01-02 15:04"), e.Message)
}
