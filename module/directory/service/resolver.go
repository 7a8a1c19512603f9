package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dirmodel "FProject/module/directory/model"
	"FProject/tools/errs"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cacheTTL = 60 * time.Second

// Resolver 把名字 token 解析成一个或一组可寻址成员。
// token 语法：可选前导 @，然后 name 或 name#discriminator（个人），
// 或裸角色名（群组，按成员插入顺序展开）。
type Resolver struct {
	coll      *mongo.Collection
	rdb       *redis.Client // 可为 nil：不启用缓存
	adminRole string
}

func NewResolver(db *mongo.Database, rdb *redis.Client, adminRole string) *Resolver {
	if adminRole == "" {
		adminRole = "admins"
	}
	return &Resolver{
		coll:      db.Collection(dirmodel.UserTableName),
		rdb:       rdb,
		adminRole: adminRole,
	}
}

// ParseToken 拆出 name 和 discriminator。
func ParseToken(token string) (name, disc string) {
	t := strings.TrimPrefix(strings.TrimSpace(token), "@")
	parts := strings.SplitN(t, "#", 2)
	name = parts[0]
	if len(parts) > 1 {
		disc = parts[1]
	}
	return name, disc
}

type resolved struct {
	Recipients []dirmodel.Recipient `json:"recipients"`
	Label      string               `json:"label"`
}

// Resolve 返回成员列表和展示标签（个人=昵称，群组=@角色名）。
// 无匹配时返回 CodeTargetNotFound，消息原样给发起的管理员看。
func (r *Resolver) Resolve(ctx context.Context, token string) ([]dirmodel.Recipient, string, error) {
	name, disc := ParseToken(token)
	if name == "" {
		return nil, "", r.notFound(token)
	}

	if got, ok := r.cacheGet(ctx, token); ok {
		return got.Recipients, got.Label, nil
	}

	// 先按个人找
	filter := bson.M{"name": name}
	if disc != "" {
		filter["discriminator"] = disc
	}
	var u dirmodel.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if err == nil {
		out := resolved{
			Recipients: []dirmodel.Recipient{{ID: u.UserID, Nick: u.Nickname}},
			Label:      u.Nickname,
		}
		r.cachePut(ctx, token, out)
		return out.Recipients, out.Label, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, "", errs.WrapMsg(err, "directory lookup failed", "token", token)
	}

	// 再按角色展开（带 # 的 token 只可能是个人）
	if disc == "" {
		cur, err := r.coll.Find(ctx, bson.M{"roles": name},
			options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return nil, "", errs.WrapMsg(err, "directory role lookup failed", "role", name)
		}
		var members []dirmodel.User
		if err := cur.All(ctx, &members); err != nil {
			return nil, "", errs.Wrap(err)
		}
		if len(members) > 0 {
			out := resolved{Label: "@" + name}
			for _, m := range members {
				out.Recipients = append(out.Recipients, dirmodel.Recipient{ID: m.UserID, Nick: m.Nickname})
			}
			r.cachePut(ctx, token, out)
			return out.Recipients, out.Label, nil
		}
	}

	return nil, "", r.notFound(name)
}

// IsAdmin 粗粒度角色检查：是否属于 admins 角色。
func (r *Resolver) IsAdmin(ctx context.Context, userID string) bool {
	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID, "roles": r.adminRole})
	if err != nil {
		return false
	}
	return n > 0
}

// Nickname 按ID取昵称；查不到时退回ID本身。
func (r *Resolver) Nickname(ctx context.Context, userID string) string {
	var u dirmodel.User
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&u); err != nil {
		return userID
	}
	return u.Nickname
}

func (r *Resolver) notFound(name string) error {
	return errs.NewCodeError(errs.CodeTargetNotFound,
		fmt.Sprintf("Username `%s` not found.", name))
}

func (r *Resolver) cacheGet(ctx context.Context, token string) (resolved, bool) {
	var out resolved
	if r.rdb == nil {
		return out, false
	}
	raw, err := r.rdb.Get(ctx, "fb:dir:"+token).Bytes()
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}

func (r *Resolver) cachePut(ctx context.Context, token string, v resolved) {
	if r.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	// 缓存失败不影响解析结果
	_ = r.rdb.Set(ctx, "fb:dir:"+token, raw, cacheTTL).Err()
}
