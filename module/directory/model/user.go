package model

const UserTableName = "users"

// User 目录里的成员（网关/机器人只读引用）。
type User struct {
	UserID        string   `bson:"user_id"`
	Name          string   `bson:"name"`          // 登录名，如 szilveszter.erdos
	Discriminator string   `bson:"discriminator"` // 可为空；形如 7945
	Nickname      string   `bson:"nickname"`      // 展示名
	Roles         []string `bson:"roles"`
}

// Recipient 解析结果里的可寻址对象。
type Recipient struct {
	ID   string `bson:"user_id" json:"id"`
	Nick string `bson:"nickname" json:"nick"`
}
