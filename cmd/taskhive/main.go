package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/application/activity"
	"github.com/taskhive/taskhive/internal/application/auth"
	"github.com/taskhive/taskhive/internal/application/authz"
	"github.com/taskhive/taskhive/internal/application/comment"
	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/application/project"
	"github.com/taskhive/taskhive/internal/application/task"
	"github.com/taskhive/taskhive/internal/application/user"
	"github.com/taskhive/taskhive/internal/config"
	infraauth "github.com/taskhive/taskhive/internal/infrastructure/auth"
	httprouter "github.com/taskhive/taskhive/internal/infrastructure/http"
	"github.com/taskhive/taskhive/internal/infrastructure/http/handlers"
	"github.com/taskhive/taskhive/internal/infrastructure/http/middleware"
	"github.com/taskhive/taskhive/internal/infrastructure/lockout"
	"github.com/taskhive/taskhive/internal/infrastructure/persistence"
	"github.com/taskhive/taskhive/internal/infrastructure/persistence/postgres"
	"github.com/taskhive/taskhive/internal/infrastructure/queue"
	"github.com/taskhive/taskhive/internal/infrastructure/security"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}
	if err := persistence.Migrate(cfg.Database.URL); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	userRepo := postgres.NewUserRepository(pool)
	tokenStore := postgres.NewTokenStore(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)

	var recorder ports.ActivityRecorder
	var worker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqRecorder := queue.NewAsynqRecorder(asynqOpt, log)
		defer asynqRecorder.Close()
		recorder = asynqRecorder
		worker = queue.NewWorker(asynqOpt, activityRepo, log)
		go func() {
			if err := worker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		recorder = queue.NewSyncRecorder(activityRepo)
	}

	hasher := security.NewBcryptHasher(cfg.Bcrypt.Cost)
	accessTTL := time.Duration(cfg.JWT.AccessExpiry) * time.Second
	refreshTTL := time.Duration(cfg.JWT.RefreshExpiry) * time.Second
	codec := infraauth.NewTokenCodec(
		[]byte(cfg.JWT.AccessSecret),
		[]byte(cfg.JWT.RefreshSecret),
		cfg.JWT.Issuer,
		accessTTL,
		refreshTTL,
	)

	activitySvc := activity.NewService(recorder, activityRepo, log)
	gate := authz.NewGate(membershipRepo)

	registerUC := auth.NewRegister(userRepo, hasher)
	loginUC := auth.NewLogin(userRepo, hasher, codec, tokenStore, refreshTTL)
	refreshUC := auth.NewRefresh(userRepo, codec, tokenStore, refreshTTL)
	logoutUC := auth.NewLogout(tokenStore)

	userSvc := user.NewService(userRepo, hasher, tokenStore)
	projectSvc := project.NewService(projectRepo, membershipRepo, taskRepo, gate, activitySvc)
	membersSvc := project.NewMembers(projectSvc, userRepo)
	taskSvc := task.NewService(taskRepo, membershipRepo, gate, activitySvc)
	commentSvc := comment.NewService(commentRepo, taskRepo, gate, activitySvc)

	lockoutStore := lockout.NewMemoryStore(cfg.Lockout.MaxAttempts, cfg.Lockout.CooldownSeconds)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.IsDevelopment()))
	corsMiddleware := middleware.CORS(cfg.CORS.AllowedOrigins)

	authHandler := handlers.NewAuthHandler(registerUC, loginUC, refreshUC, logoutUC, lockoutStore, accessTTL, refreshTTL, !cfg.IsDevelopment(), log)
	usersHandler := handlers.NewUsersHandler(userSvc, activitySvc, log)
	projectsHandler := handlers.NewProjectsHandler(projectSvc, membersSvc, log)
	tasksHandler := handlers.NewTasksHandler(taskSvc, log)
	commentsHandler := handlers.NewCommentsHandler(commentSvc, log)
	requireJWT := middleware.NewAuthValidator(codec).Handler

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:     authHandler,
		HealthHandler:   healthHandler,
		UsersHandler:    usersHandler,
		ProjectsHandler: projectsHandler,
		TasksHandler:    tasksHandler,
		CommentsHandler: commentsHandler,
		RequireJWT:      requireJWT,
		Log:             log,
		Secure:          secureMiddleware,
		CORS:            corsMiddleware,
		IPRateLimit:     ipLimit,
		Metrics:         true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if worker != nil {
		worker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
