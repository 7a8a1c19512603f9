package model

// 集合名
const (
	QuestionTableName = "questions"
	AskQueueTableName = "ask_queue"
	FeedbackTableName = "feedbacks"
	SettingsTableName = "settings"
)

// Question 一条反馈问题。
// Index 是 1 起始的连续序号：任何增删之后全量重排，
// 顺序跟随插入顺序（_id 升序）。
type Question struct {
	QuestionID string `bson:"question_id" json:"question_id"` // 雪花ID
	Content    string `bson:"content" json:"content"`
	Index      int    `bson:"index" json:"index"`
}
