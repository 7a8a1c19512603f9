package store

import (
	"context"

	fbmodel "FProject/module/feedback/model"
	"FProject/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Enqueue 批量插入待发问条目。
func (r *Repo) Enqueue(ctx context.Context, entries []fbmodel.AskQueueEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e)
	}
	_, err := r.QueueColl.InsertMany(ctx, docs)
	return errs.Wrap(err)
}

// NextToAsk 返回 giver 最早的 to-ask 条目（插入顺序），没有则返回 nil。
func (r *Repo) NextToAsk(ctx context.Context, giverID string) (*fbmodel.AskQueueEntry, error) {
	var e fbmodel.AskQueueEntry
	err := r.QueueColl.FindOne(ctx,
		bson.M{"giver_id": giverID, "status": fbmodel.AskStatusToAsk},
		options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}}),
	).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return &e, nil
}

// AskedEntry 返回 giver 当前 asked 状态的条目（不变式保证至多一条）。
func (r *Repo) AskedEntry(ctx context.Context, giverID string) (*fbmodel.AskQueueEntry, error) {
	var e fbmodel.AskQueueEntry
	err := r.QueueColl.FindOne(ctx,
		bson.M{"giver_id": giverID, "status": fbmodel.AskStatusAsked},
	).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return &e, nil
}

// MarkAsked 把条目从 to-ask 翻到 asked。
// 这是唯一一个产生 asked 状态的写入口。
func (r *Repo) MarkAsked(ctx context.Context, entryID string) error {
	_, err := r.QueueColl.UpdateOne(ctx,
		bson.M{"entry_id": entryID, "status": fbmodel.AskStatusToAsk},
		bson.M{"$set": bson.M{"status": fbmodel.AskStatusAsked}},
	)
	return errs.Wrap(err)
}

// DeleteEntry 消费（删除）一条队列条目。
func (r *Repo) DeleteEntry(ctx context.Context, entryID string) error {
	_, err := r.QueueColl.DeleteOne(ctx, bson.M{"entry_id": entryID})
	return errs.Wrap(err)
}
