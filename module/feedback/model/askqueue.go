package model

// 队列条目状态
const (
	AskStatusToAsk = "to-ask" // 待发问
	AskStatusAsked = "asked"  // 已发问，等回答
)

// AskQueueEntry 一条 (giver, receiver, question) 义务。
// 不变式：任一 giver 全局最多一条 asked 状态的条目；
// 只有当前 asked 条目被消费删除后才推进下一条。
type AskQueueEntry struct {
	EntryID         string `bson:"entry_id"` // 雪花ID，稳定顺序 = 插入顺序
	GiverID         string `bson:"giver_id"`
	GiverNick       string `bson:"giver_nick"`
	ReceiverID      string `bson:"receiver_id"`
	ReceiverNick    string `bson:"receiver_nick"`
	QuestionContent string `bson:"question_content"`
	Status          string `bson:"status"`
	CreatedAtMS     int64  `bson:"created_at_ms"`
}
