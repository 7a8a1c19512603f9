package config

import (
	"strings"

	"FProject/tools/errs"

	"github.com/caarlos0/env/v11"
)

// AppConfig 全部来自环境变量。
// 必填项缺失时 Load 返回带操作指引的错误（进程打印后干净退出，不 panic）。
type AppConfig struct {
	MongoURI      string `env:"FEEDBACK_MONGO_URI"`
	MongoDatabase string `env:"FEEDBACK_MONGO_DB" envDefault:"feedback"`

	RedisAddr     string `env:"FEEDBACK_REDIS_ADDR"` // 空 = 不启用缓存/共享幂等
	RedisPassword string `env:"FEEDBACK_REDIS_PASSWORD"`
	RedisDB       int    `env:"FEEDBACK_REDIS_DB" envDefault:"0"`

	NatsURL  string `env:"FEEDBACK_NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	HTTPAddr string `env:"FEEDBACK_HTTP_ADDR" envDefault:":8080"`

	TokenSecret string `env:"FEEDBACK_TOKEN_SECRET"` // 网关/API 的 JWT 密钥
	BotUserID   string `env:"FEEDBACK_BOT_USER_ID" envDefault:"feedback-bot"`
	AdminRole   string `env:"FEEDBACK_ADMIN_ROLE" envDefault:"admins"`

	// 答案提交后对 receiver 的通知策略：off | notify | disclose
	NotifyMode string `env:"FEEDBACK_NOTIFY_MODE" envDefault:"notify"`
}

func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, errs.WrapMsg(err, "parse environment failed")
	}

	var missing []string
	if cfg.MongoURI == "" {
		missing = append(missing, "FEEDBACK_MONGO_URI (mongodb connection string, e.g. mongodb://localhost:27017)")
	}
	if cfg.TokenSecret == "" {
		missing = append(missing, "FEEDBACK_TOKEN_SECRET (HMAC secret for gateway tokens)")
	}
	if len(missing) > 0 {
		return nil, errs.New(
			"missing required configuration:\n  " + strings.Join(missing, "\n  ") +
				"\nSet the variables above and restart.")
	}

	switch cfg.NotifyMode {
	case "off", "notify", "disclose":
	default:
		return nil, errs.New("FEEDBACK_NOTIFY_MODE must be one of: off, notify, disclose")
	}
	return &cfg, nil
}
