package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	dirmodel "FProject/module/directory/model"
	fbmodel "FProject/module/feedback/model"
)

func setupBot(t *testing.T, notify NotifyMode) (*Bot, *memStore, *fakeResolver, *recordSender) {
	t.Helper()
	store := newMemStore()
	resolver := newFakeResolver()
	resolver.admins["admin"] = true
	sender := newRecordSender()
	bot := NewBot("bot", store, sender, resolver, notify)
	return bot, store, resolver, sender
}

func defineQuestions(t *testing.T, store *memStore, contents ...string) {
	t.Helper()
	for _, c := range contents {
		if _, err := store.AddQuestion(context.Background(), c); err != nil {
			t.Fatalf("AddQuestion: %v", err)
		}
	}
}

func TestStartWrongUsage(t *testing.T) {
	bot, store, _, sender := setupBot(t, NotifyOff)
	defineQuestions(t, store, "Q1")

	bot.Handle(context.Background(), Inbound{SenderID: "admin", Text: "start @only-one", Private: true})

	last, _ := sender.last()
	if !strings.HasPrefix(last.Text, msgWrongFormat) {
		t.Fatalf("want wrong-usage reply, got %q", last.Text)
	}
	if n := store.countQueue("", fbmodel.AskStatusToAsk) + store.countQueue("", fbmodel.AskStatusAsked); n != 0 {
		t.Fatalf("queue mutated on wrong usage: %d entries", n)
	}
}

func TestStartTargetNotFound(t *testing.T) {
	bot, store, resolver, sender := setupBot(t, NotifyOff)
	defineQuestions(t, store, "Q1")
	resolver.addUser("@alice", "u-alice", "alice")

	bot.Handle(context.Background(), Inbound{SenderID: "admin", Text: "start @alice @ghost", Private: true})

	last, _ := sender.last()
	if last.To != "admin" || !strings.Contains(last.Text, "`@ghost` not found") {
		t.Fatalf("want verbatim not-found to admin, got %+v", last)
	}
	if n := store.countQueue("", fbmodel.AskStatusToAsk) + store.countQueue("", fbmodel.AskStatusAsked); n != 0 {
		t.Fatalf("queue mutated on resolve failure: %d entries", n)
	}
}

func TestStartNoQuestionsDefined(t *testing.T) {
	bot, store, resolver, sender := setupBot(t, NotifyOff)
	resolver.addUser("@alice", "u-alice", "alice")
	resolver.addUser("@bob", "u-bob", "bob")

	bot.Handle(context.Background(), Inbound{SenderID: "admin", Text: "start @alice @bob", Private: true})

	last, _ := sender.last()
	if last.Text != msgNoQuestions {
		t.Fatalf("want no-questions hint, got %q", last.Text)
	}
	if n := store.countQueue("", fbmodel.AskStatusToAsk); n != 0 {
		t.Fatalf("enqueue happened without questions")
	}
}

func TestStartCreatesCrossProductAndAsksFirst(t *testing.T) {
	bot, store, resolver, sender := setupBot(t, NotifyOff)
	defineQuestions(t, store, "Q1", "Q2", "Q3")
	resolver.addUser("@alice", "u-alice", "alice")
	resolver.addUser("@bob", "u-bob", "bob")

	bot.Handle(context.Background(), Inbound{SenderID: "admin", Text: "start @alice @bob", Private: true})

	if got := store.countQueue("u-alice", fbmodel.AskStatusAsked); got != 1 {
		t.Fatalf("asked entries = %d, want 1", got)
	}
	if got := store.countQueue("u-alice", fbmodel.AskStatusToAsk); got != 2 {
		t.Fatalf("to-ask entries = %d, want 2", got)
	}

	// 第一问带开场白
	asks := sender.toUser("u-alice")
	if len(asks) != 1 || !strings.Contains(asks[0], "feedback time") || !strings.Contains(asks[0], "Q1") {
		t.Fatalf("first question delivery = %q", asks)
	}

	// 确认消息带两个标签
	last, _ := sender.last()
	if last.To != "admin" || last.Text != fmt.Sprintf(msgStartConfirmed, "alice", "bob") {
		t.Fatalf("confirmation = %+v", last)
	}
}

func TestStartGroupExcludesSelfPairs(t *testing.T) {
	bot, store, resolver, _ := setupBot(t, NotifyOff)
	defineQuestions(t, store, "Q1")
	team := []dirmodel.Recipient{{ID: "u-a", Nick: "a"}, {ID: "u-b", Nick: "b"}}
	resolver.addGroup("team", team...)

	bot.Handle(context.Background(), Inbound{SenderID: "admin", Text: "start team team", Private: true})

	// 2 成员互评，无自评：2 对 × 1 问 = 2 条
	total := store.countQueue("", fbmodel.AskStatusToAsk) + store.countQueue("", fbmodel.AskStatusAsked)
	if total != 2 {
		t.Fatalf("entries = %d, want 2", total)
	}
	if store.countQueue("u-a", fbmodel.AskStatusAsked) != 1 || store.countQueue("u-b", fbmodel.AskStatusAsked) != 1 {
		t.Fatalf("each giver should hold exactly one asked entry")
	}
}

func TestAnswerFlowDrainsQueue(t *testing.T) {
	bot, store, resolver, sender := setupBot(t, NotifyOff)
	defineQuestions(t, store, "Q1", "Q2")
	resolver.addUser("@alice", "u-alice", "alice")
	resolver.addUser("@bob", "u-bob", "bob")
	bot.Handle(context.Background(), Inbound{SenderID: "admin", Text: "start @alice @bob", Private: true})

	// 整个会话期间 asked 恒 ≤ 1
	for i, answer := range []string{"great listener", "ships fast"} {
		if got := store.countQueue("u-alice", fbmodel.AskStatusAsked); got != 1 {
			t.Fatalf("step %d: asked = %d, want 1", i, got)
		}
		bot.Handle(context.Background(), Inbound{SenderID: "u-alice", Text: answer, Private: true})
	}

	if got := store.countQueue("u-alice", fbmodel.AskStatusAsked); got != 0 {
		t.Fatalf("after drain asked = %d, want 0", got)
	}
	if got := store.countQueue("u-alice", fbmodel.AskStatusToAsk); got != 0 {
		t.Fatalf("after drain to-ask = %d, want 0", got)
	}

	doc, _ := store.ListFeedback(context.Background(), "u-bob")
	if doc == nil || len(doc.Entries) != 2 {
		t.Fatalf("feedback entries = %+v", doc)
	}
	if doc.Entries[0].Message != "great listener" || doc.Entries[1].Message != "ships fast" {
		t.Fatalf("submission order lost: %+v", doc.Entries)
	}
	if doc.Entries[0].QuestionContent != "Q1" || doc.Entries[1].QuestionContent != "Q2" {
		t.Fatalf("question tagging wrong: %+v", doc.Entries)
	}

	// 没有待办后，再闲聊就是普通未知消息，不再触发发问
	sender.reset()
	bot.Handle(context.Background(), Inbound{SenderID: "u-alice", Text: "hello again", Private: true})
	msgs := sender.toUser("u-alice")
	if len(msgs) != 1 || msgs[0] != msgNotACommandNotAdmin {
		t.Fatalf("post-drain message = %q", msgs)
	}
}

func TestAnswerConfirmationEchoesText(t *testing.T) {
	bot, store, resolver, sender := setupBot(t, NotifyOff)
	defineQuestions(t, store, "Q1")
	resolver.addUser("@alice", "u-alice", "alice")
	resolver.addUser("@bob", "u-bob", "bob")
	bot.Handle(context.Background(), Inbound{SenderID: "admin", Text: "start @alice @bob", Private: true})

	bot.Handle(context.Background(), Inbound{SenderID: "u-alice", Text: "keeps calm", Private: true})

	want := fmt.Sprintf(msgFeedbackConfirmed, "bob", "keeps calm")
	found := false
	for _, m := range sender.toUser("u-alice") {
		if m == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("confirmation missing, sent: %q", sender.toUser("u-alice"))
	}
}

func TestNotifyModes(t *testing.T) {
	for _, tc := range []struct {
		mode      NotifyMode
		wantCount int
		disclosed bool
	}{
		{NotifyOff, 0, false},
		{NotifyFact, 1, false},
		{NotifyDisclose, 1, true},
	} {
		t.Run(string(tc.mode), func(t *testing.T) {
			bot, store, resolver, sender := setupBot(t, tc.mode)
			defineQuestions(t, store, "Q1")
			resolver.addUser("@alice", "u-alice", "alice")
			resolver.addUser("@bob", "u-bob", "bob")
			bot.Handle(context.Background(), Inbound{SenderID: "admin", Text: "start @alice @bob", Private: true})

			bot.Handle(context.Background(), Inbound{SenderID: "u-alice", Text: "the answer", Private: true})

			got := sender.toUser("u-bob")
			if len(got) != tc.wantCount {
				t.Fatalf("receiver notifications = %d, want %d (%q)", len(got), tc.wantCount, got)
			}
			if tc.disclosed && !strings.Contains(got[0], "the answer") {
				t.Fatalf("disclose mode should carry content: %q", got[0])
			}
			if tc.mode == NotifyFact && strings.Contains(got[0], "the answer") {
				t.Fatalf("notify mode must not leak content: %q", got[0])
			}
		})
	}
}

func TestSendFailureDoesNotRollBackStore(t *testing.T) {
	bot, store, resolver, sender := setupBot(t, NotifyOff)
	defineQuestions(t, store, "Q1", "Q2")
	resolver.addUser("@alice", "u-alice", "alice")
	resolver.addUser("@bob", "u-bob", "bob")
	bot.Handle(context.Background(), Inbound{SenderID: "admin", Text: "start @alice @bob", Private: true})

	// giver 的传输挂了：确认和下一问都发不出去，但存储照常推进
	sender.failTo["u-alice"] = true
	bot.Handle(context.Background(), Inbound{SenderID: "u-alice", Text: "still recorded", Private: true})

	doc, _ := store.ListFeedback(context.Background(), "u-bob")
	if doc == nil || len(doc.Entries) != 1 {
		t.Fatalf("feedback lost on send failure: %+v", doc)
	}
	if got := store.countQueue("u-alice", fbmodel.AskStatusAsked); got != 1 {
		t.Fatalf("queue did not advance past send failure: asked=%d", got)
	}
}
