package main // Entry point package

import (
    "context"   // Context for shutdown propagation
    "log"       // Logging library
    "os/signal" // Signal-aware context
    "syscall"   // SIGTERM constant
    "time"      // Backoff and timeout values

    "github.com/joho/godotenv"    // Loads .env files in development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/library-reservation/internal/bot"
    "github.com/iliyamo/library-reservation/internal/config"
    "github.com/iliyamo/library-reservation/internal/database"
    "github.com/iliyamo/library-reservation/internal/handler"
    "github.com/iliyamo/library-reservation/internal/messenger"
    "github.com/iliyamo/library-reservation/internal/middleware"
    "github.com/iliyamo/library-reservation/internal/queue"
    "github.com/iliyamo/library-reservation/internal/repository"
    "github.com/iliyamo/library-reservation/internal/router"
    "github.com/iliyamo/library-reservation/internal/scheduler"
    "github.com/iliyamo/library-reservation/internal/session"
)

func main() {
    if err := godotenv.Load(); err != nil {
        log.Println("no .env file found, relying on the environment")
    }
    cfg := config.Load()

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    db, err := database.OpenWithRetry(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, 10, 2*time.Second)
    if err != nil {
        log.Fatalf("database unavailable: %v", err)
    }
    defer db.Close()

    if err := database.EnsureSchema(ctx, db); err != nil {
        log.Fatalf("schema setup failed: %v", err)
    }

    rdb := config.NewRedisClient() // nil when Redis is absent

    var sessions session.Store
    switch cfg.SessionBackend {
    case "redis":
        if rdb == nil {
            log.Fatal("SESSION_BACKEND=redis but Redis is unavailable")
        }
        sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
    default:
        sessions = session.NewMemoryStore(cfg.SessionTTL)
    }

    msgr := messenger.New(cfg.MessengerURL, cfg.GroupChatID)
    loans := repository.NewLoanRepo(db)
    reminders := repository.NewReminderLogRepo(db)

    var events bot.EventPublisher
    if cfg.AMQPURL != "" {
        events = queue.NewPublisher(cfg.AMQPURL)
        go queue.StartLoanConsumer(cfg.AMQPURL) // audit log consumer
    } else {
        log.Println("RABBITMQ_URL not set, loan events disabled")
    }

    engine := bot.NewEngine(bot.EngineConfig{
        Users:           repository.NewUserRepo(db),
        Catalog:         repository.NewBookRepo(db),
        Ledger:          loans,
        Waitlist:        repository.NewWaitlistRepo(db),
        ReminderLog:     reminders,
        Events:          events,
        Sessions:        sessions,
        Messenger:       msgr,
        Offices:         cfg.Offices,
        DeliveryTimeout: cfg.DeliveryTimeout,
    })

    sweeper := scheduler.NewSweeper(scheduler.SweeperConfig{
        Loans:           loans,
        Reminders:       reminders,
        Messenger:       msgr,
        OverdueCooldown: cfg.OverdueCooldown,
        SweepInterval:   cfg.SweepInterval,
        DeliveryTimeout: cfg.DeliveryTimeout,
    })
    go sweeper.Run(ctx)

    e := echo.New()
    router.RegisterRoutes(e)
    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    router.RegisterWebhook(e, handler.NewWebhookHandler(engine), limiter)

    // Stop accepting updates when the shutdown signal arrives.
    go func() {
        <-ctx.Done()
        sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        if err := e.Shutdown(sctx); err != nil {
            log.Printf("server shutdown: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Println(err)
    }
}
