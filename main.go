package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongoutil "FProject/data/database/mgo/mongoutil"
	"FProject/global/config"
	"FProject/logger"
	"FProject/middleware"
	midsec "FProject/middleware/security"
	dirservice "FProject/module/directory/service"
	"FProject/module/feedback"
	fbservice "FProject/module/feedback/service"
	fbstore "FProject/module/feedback/store"
	"FProject/service/chat"
	mgoSrv "FProject/service/mgo"
	natsx "FProject/service/natsx"
	redisSrv "FProject/service/storage/redis"
	"FProject/tools/security"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// 配置错误：给操作指引，不丢堆栈
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ===== Mongo（启动期硬依赖：就绪前不进入消息处理） =====
	mgoSrv.StartAsync(ctx, &mongoutil.Config{
		Uri:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = mgoSrv.WaitReady(waitCtx, mgoSrv.Manager())
	cancel()
	if err != nil {
		logger.Fatalf("mongo not ready: %v", err)
	}
	db := mgoSrv.GetDB()

	// ===== Redis（可选） =====
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		if err := redisSrv.InitRedis(redisSrv.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}); err != nil {
			logger.Fatalf("redis init failed: %v", err)
		}
		rdb = redisSrv.GetRedis()
		defer func() { _ = redisSrv.CloseRedis() }()
	}

	// ===== NATS 总线 =====
	nc, err := natsx.NewNatsxClient(natsx.NatsxConfig{
		Servers: []string{cfg.NatsURL},
		Name:    "feedback-bot",
	})
	if err != nil {
		logger.Fatalf("nats connect failed: %v", err)
	}
	defer func() { _ = nc.Close() }()

	producer := natsx.NewNatsxProducer(nc)
	var idem natsx.IdemStore
	if rdb != nil {
		idem = natsx.NewRedisIdem(rdb, "")
	} else {
		idem = natsx.NewMemIdem(10 * time.Minute)
	}
	consumer := natsx.NewNatsxConsumer(nc, idem)

	// ===== 机器人核心 =====
	repo := fbstore.NewRepo(db)
	resolver := dirservice.NewResolver(db, rdb, cfg.AdminRole)
	sender := feedback.NewNatsSender(producer, cfg.BotUserID)
	bot := fbservice.NewBot(cfg.BotUserID, repo, sender, resolver, fbservice.NotifyMode(cfg.NotifyMode))

	if err := consumer.SubscribeQueue(chat.SubjectInbound, chat.InboundQueue,
		feedback.InboundHandler(bot, 15*time.Second)); err != nil {
		logger.Fatalf("subscribe inbound failed: %v", err)
	}

	// ===== 网关 + 管理 API =====
	jwtOpts := security.DefaultOptions([]byte(cfg.TokenSecret))
	gw := chat.NewServer(chat.NewConnManager(), producer, jwtOpts, cfg.BotUserID)
	if err := consumer.Subscribe(chat.SubjectOutbound, gw.HandleOutbound); err != nil {
		logger.Fatalf("subscribe outbound failed: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ws", gw.HandleWS)
	middleware.GET(r, "/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "connections": gw.ConnMgr().Count()})
	}, middleware.RouteOpt{})

	adminAuth := &midsec.Options{
		JwtOpts:      jwtOpts,
		RequireAdmin: true,
		IsAdmin: func(c *gin.Context, userID string) bool {
			return resolver.IsAdmin(c.Request.Context(), userID)
		},
	}
	h := feedback.NewHandler(repo)
	middleware.GET(r, "/api/questions", h.HandleQuestions, middleware.RouteOpt{Auth: adminAuth})
	middleware.GET(r, "/api/feedback/:user_id", h.HandleFeedback, middleware.RouteOpt{Auth: adminAuth})

	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(cfg.HTTPAddr) }()
	logger.Infof("feedback bot up, listening on %s", cfg.HTTPAddr)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Fatalf("http server failed: %v", err)
	}
}
