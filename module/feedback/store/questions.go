package store

import (
	"context"

	fbmodel "FProject/module/feedback/model"
	"FProject/tools/errs"
	"FProject/tools/ids"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListQuestions 按插入顺序（_id 升序）返回全部问题。
func (r *Repo) ListQuestions(ctx context.Context) ([]fbmodel.Question, error) {
	cur, err := r.QuestionColl.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errs.Wrap(err)
	}
	var out []fbmodel.Question
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.Wrap(err)
	}
	return out, nil
}

// AddQuestion 追加一条问题并全量重排序号。
func (r *Repo) AddQuestion(ctx context.Context, content string) (fbmodel.Question, error) {
	q := fbmodel.Question{
		QuestionID: ids.GenerateString(),
		Content:    content,
	}
	if _, err := r.QuestionColl.InsertOne(ctx, q); err != nil {
		return fbmodel.Question{}, errs.Wrap(err)
	}
	if err := r.RenumberQuestions(ctx); err != nil {
		return fbmodel.Question{}, err
	}
	// 重排后读回自己的序号
	if err := r.QuestionColl.FindOne(ctx, bson.M{"question_id": q.QuestionID}).Decode(&q); err != nil {
		return fbmodel.Question{}, errs.Wrap(err)
	}
	return q, nil
}

// RemoveQuestion 删除指定序号的问题并重排。
// 序号不存在时返回 false，不算错误。
func (r *Repo) RemoveQuestion(ctx context.Context, index int) (bool, error) {
	res, err := r.QuestionColl.DeleteOne(ctx, bson.M{"index": index})
	if err != nil {
		return false, errs.Wrap(err)
	}
	if res.DeletedCount == 0 {
		return false, nil
	}
	if err := r.RenumberQuestions(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// RenumberQuestions 把序号重排成无洞的 1..N（按插入顺序）。
func (r *Repo) RenumberQuestions(ctx context.Context) error {
	qs, err := r.ListQuestions(ctx)
	if err != nil {
		return err
	}
	var writes []mongo.WriteModel
	for i, q := range qs {
		want := i + 1
		if q.Index == want {
			continue
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"question_id": q.QuestionID}).
			SetUpdate(bson.M{"$set": bson.M{"index": want}}))
	}
	if len(writes) == 0 {
		return nil
	}
	_, err = r.QuestionColl.BulkWrite(ctx, writes)
	return errs.Wrap(err)
}
