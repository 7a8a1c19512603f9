package model

import "time"

// FeedbackDoc 按 receiver 聚合的反馈文档。
// Entries 只通过 $push 追加，不改写、不重排。
type FeedbackDoc struct {
	ReceiverID   string          `bson:"receiver_id" json:"receiver_id"`
	ReceiverNick string          `bson:"receiver_nick" json:"receiver_nick"`
	Entries      []FeedbackEntry `bson:"entries" json:"entries"`
}

// FeedbackEntry 单条反馈（快照式，写入后不再变）。
type FeedbackEntry struct {
	GiverID         string    `bson:"giver_id" json:"giver_id"`
	GiverNick       string    `bson:"giver_nick" json:"giver_nick"`
	QuestionContent string    `bson:"question_content,omitempty" json:"question_content,omitempty"`
	Message         string    `bson:"message" json:"message"`
	Timestamp       time.Time `bson:"timestamp" json:"timestamp"`
}
