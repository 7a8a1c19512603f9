package store

import (
	fbmodel "FProject/module/feedback/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repo 四个集合上的窄操作集。
// 所有修改都是单文档原子操作（upsert / $push / delete by filter），
// 不依赖事务；并发安全性由 mongo 的单文档原子性保证。
type Repo struct {
	QuestionColl *mongo.Collection
	QueueColl    *mongo.Collection
	FeedbackColl *mongo.Collection
	SettingsColl *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		QuestionColl: db.Collection(fbmodel.QuestionTableName),
		QueueColl:    db.Collection(fbmodel.AskQueueTableName),
		FeedbackColl: db.Collection(fbmodel.FeedbackTableName),
		SettingsColl: db.Collection(fbmodel.SettingsTableName),
	}
}
