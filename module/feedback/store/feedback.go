package store

import (
	"context"

	fbmodel "FProject/module/feedback/model"
	"FProject/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AppendFeedback 原子追加一条反馈：upsert receiver 文档 + $push。
// 不同 giver 并发写同一 receiver 时由单文档原子性串行化，不会丢更新。
func (r *Repo) AppendFeedback(ctx context.Context, receiverID, receiverNick string, e fbmodel.FeedbackEntry) error {
	_, err := r.FeedbackColl.UpdateOne(ctx,
		bson.M{"receiver_id": receiverID},
		bson.M{
			"$setOnInsert": bson.M{"receiver_nick": receiverNick},
			"$push":        bson.M{"entries": e},
		},
		options.Update().SetUpsert(true),
	)
	return errs.Wrap(err)
}

// ListFeedback 取 receiver 的反馈文档；没有时返回 nil。
func (r *Repo) ListFeedback(ctx context.Context, receiverID string) (*fbmodel.FeedbackDoc, error) {
	var doc fbmodel.FeedbackDoc
	err := r.FeedbackColl.FindOne(ctx, bson.M{"receiver_id": receiverID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return &doc, nil
}
