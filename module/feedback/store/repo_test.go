package store

import (
	"context"
	"os"
	"testing"
	"time"

	mongoutil "FProject/data/database/mgo/mongoutil"
	fbmodel "FProject/module/feedback/model"
)

// 需要真实 mongo：FEEDBACK_TEST_MONGO_URI 未设置时跳过。
func testRepo(t *testing.T) *Repo {
	t.Helper()
	uri := os.Getenv("FEEDBACK_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FEEDBACK_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	cli, err := mongoutil.NewMongoDB(ctx, &mongoutil.Config{
		Uri:      uri,
		Database: "feedback_test",
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := cli.GetDB()
	for _, coll := range []string{
		fbmodel.QuestionTableName, fbmodel.AskQueueTableName,
		fbmodel.FeedbackTableName, fbmodel.SettingsTableName,
	} {
		_ = db.Collection(coll).Drop(ctx)
	}
	return NewRepo(db)
}

func TestQuestionRenumbering(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	for _, c := range []string{"A", "B", "C"} {
		if _, err := r.AddQuestion(ctx, c); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if ok, err := r.RemoveQuestion(ctx, 2); err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}

	qs, err := r.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(qs) != 2 || qs[0].Index != 1 || qs[1].Index != 2 {
		t.Fatalf("indices not dense: %+v", qs)
	}
	if qs[0].Content != "A" || qs[1].Content != "C" {
		t.Fatalf("order wrong: %+v", qs)
	}
}

func TestQueueLifecycle(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	entries := []fbmodel.AskQueueEntry{
		{EntryID: "e1", GiverID: "g", ReceiverID: "r", QuestionContent: "Q1", Status: fbmodel.AskStatusToAsk},
		{EntryID: "e2", GiverID: "g", ReceiverID: "r", QuestionContent: "Q2", Status: fbmodel.AskStatusToAsk},
	}
	if err := r.Enqueue(ctx, entries); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	next, err := r.NextToAsk(ctx, "g")
	if err != nil || next == nil || next.EntryID != "e1" {
		t.Fatalf("next = %+v err=%v", next, err)
	}
	if err := r.MarkAsked(ctx, next.EntryID); err != nil {
		t.Fatalf("mark: %v", err)
	}

	asked, err := r.AskedEntry(ctx, "g")
	if err != nil || asked == nil || asked.EntryID != "e1" {
		t.Fatalf("asked = %+v err=%v", asked, err)
	}
	if err := r.DeleteEntry(ctx, asked.EntryID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	next, _ = r.NextToAsk(ctx, "g")
	if next == nil || next.EntryID != "e2" {
		t.Fatalf("advance wrong: %+v", next)
	}
}

func TestAppendFeedbackUpserts(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	e := fbmodel.FeedbackEntry{GiverID: "g", GiverNick: "gn", Message: "m1", Timestamp: time.Now()}
	if err := r.AppendFeedback(ctx, "recv", "rn", e); err != nil {
		t.Fatalf("append: %v", err)
	}
	e.Message = "m2"
	if err := r.AppendFeedback(ctx, "recv", "rn", e); err != nil {
		t.Fatalf("append: %v", err)
	}

	doc, err := r.ListFeedback(ctx, "recv")
	if err != nil || doc == nil {
		t.Fatalf("list: doc=%v err=%v", doc, err)
	}
	if len(doc.Entries) != 2 || doc.Entries[0].Message != "m1" || doc.Entries[1].Message != "m2" {
		t.Fatalf("entries = %+v", doc.Entries)
	}
}
