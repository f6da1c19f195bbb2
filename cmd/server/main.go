package main

import (
	"context"
	"flag"

	"github.com/kochabx/pulse/internal/config"
	"github.com/kochabx/pulse/internal/post"
	"github.com/kochabx/pulse/internal/server"
	"github.com/kochabx/pulse/internal/server/ratelimit"
	"github.com/kochabx/pulse/internal/store/db"
	"github.com/kochabx/pulse/internal/store/redis"
	"github.com/kochabx/pulse/internal/token"
	"github.com/kochabx/pulse/internal/user"
	"github.com/kochabx/pulse/pkg/app"
	"github.com/kochabx/pulse/pkg/log"
)

func main() {
	configName := flag.String("config", "config.yaml", "config file name")
	configDir := flag.String("config-dir", ".", "config search path")
	flag.Parse()

	cfg, err := config.Load(*configName, *configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create logger")
	}
	log.SetGlobalLogger(logger)
	log.SetGlobalLevel(log.ParseLevel(cfg.Log.Level))

	ctx := context.Background()

	// Redis：会话缓存与表态计数
	redisClient, err := redis.New(ctx, &cfg.Redis, redis.WithLogger(logger))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}

	// 数据库：用户与帖子
	gdb, err := db.NewGorm(cfg.Database.DriverConfig(), db.WithLogger(logger))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := gdb.DB.AutoMigrate(&user.User{}, &post.Post{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// 令牌服务
	codec, err := token.NewCodec(&cfg.Token.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token codec")
	}
	sessions := token.NewRedisSessionCache(redisClient.UniversalClient(),
		token.WithKeyPrefix(cfg.Token.CachePrefix))
	tokens := token.NewService(codec, sessions)

	// 业务装配
	users := user.NewHandler(user.NewService(user.NewRepository(gdb.DB), tokens))

	reactions := post.NewRedisReactionStore(redisClient.UniversalClient(),
		post.WithReactionKeyPrefix("reaction:"))
	posts := post.NewHandler(post.NewService(post.NewRepository(gdb.DB), reactions))

	var limiter ratelimit.Limiter
	if rl := cfg.Server.AuthRateLimit; rl.Enabled {
		limiter = ratelimit.NewSlidingWindow(redisClient.UniversalClient(),
			rl.GetWindow(), rl.Limit, ratelimit.WithKeyPrefix("ratelimit:"))
	}

	router := server.NewRouter(server.RouterConfig{
		Mode:        cfg.Server.Mode,
		Tokens:      tokens,
		Users:       users,
		Posts:       posts,
		AuthLimiter: limiter,
	})

	srv := server.New(cfg.Server.Addr, router,
		server.WithName(cfg.App.Name),
		server.WithTimeouts(cfg.Server.GetReadTimeout(), cfg.Server.GetWriteTimeout(), cfg.Server.GetIdleTimeout()),
	)

	application := app.New(
		app.WithContext(ctx),
		app.WithShutdownTimeout(cfg.Server.GetShutdownTimeout()),
		app.WithServer(srv),
		app.WithClose("redis", func(context.Context) error { return redisClient.Close() }, 0),
		app.WithClose("database", func(context.Context) error { return gdb.Close() }, 0),
		app.WithClose("logger", func(context.Context) error { return logger.Close() }, 0),
	)

	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("application exited with error")
	}
}
