package model

import "time"

// WizardStatus 问题编辑向导的会话状态
type WizardStatus string

const (
	WizardNone          WizardStatus = ""                        // 无向导会话
	WizardDefinePending WizardStatus = "questions-define-pending" // 问“还要加吗”
	WizardDefineNew     WizardStatus = "questions-define-new"     // 等新问题文本
	WizardRemovePending WizardStatus = "questions-remove-pending" // 等序号或 cancel
)

// WizardSession 每个管理员一份（settings 集合，admin_id 作 key）。
// 会话外不存在该文档；退出向导时删除。
type WizardSession struct {
	AdminID   string       `bson:"admin_id"`
	Status    WizardStatus `bson:"status"`
	UpdatedAt time.Time    `bson:"updated_at"`
}
