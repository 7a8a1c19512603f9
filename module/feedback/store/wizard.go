package store

import (
	"context"
	"time"

	fbmodel "FProject/module/feedback/model"
	"FProject/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetWizard 读管理员当前的向导状态；无会话时返回 WizardNone。
func (r *Repo) GetWizard(ctx context.Context, adminID string) (fbmodel.WizardStatus, error) {
	var s fbmodel.WizardSession
	err := r.SettingsColl.FindOne(ctx, bson.M{"admin_id": adminID}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return fbmodel.WizardNone, nil
	}
	if err != nil {
		return fbmodel.WizardNone, errs.Wrap(err)
	}
	return s.Status, nil
}

// UpsertWizard 设置管理员的向导状态（按 admin_id upsert）。
func (r *Repo) UpsertWizard(ctx context.Context, adminID string, status fbmodel.WizardStatus) error {
	_, err := r.SettingsColl.UpdateOne(ctx,
		bson.M{"admin_id": adminID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	return errs.Wrap(err)
}

// ClearWizard 退出向导：删除会话文档。
func (r *Repo) ClearWizard(ctx context.Context, adminID string) error {
	_, err := r.SettingsColl.DeleteOne(ctx, bson.M{"admin_id": adminID})
	return errs.Wrap(err)
}
