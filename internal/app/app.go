package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/metinatakli/theatre-reservation-system/internal/booking"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
	"github.com/metinatakli/theatre-reservation-system/internal/lock"
	"github.com/metinatakli/theatre-reservation-system/internal/mailer"
	"github.com/metinatakli/theatre-reservation-system/internal/repository"
	"github.com/metinatakli/theatre-reservation-system/internal/storage"
	appvalidator "github.com/metinatakli/theatre-reservation-system/internal/validator"
	"github.com/metinatakli/theatre-reservation-system/internal/vcs"
	"github.com/metinatakli/theatre-reservation-system/migrations"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const (
	serviceName     = "theatre-reservation-api"
	shutdownTimeout = 30 * time.Second
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	validator *validator.Validate
	mailer    mailer.Mailer
	images    storage.ImageStore
	booking   *booking.Service

	userRepo        domain.UserRepository
	tokenRepo       domain.TokenRepository
	genreRepo       domain.GenreRepository
	actorRepo       domain.ActorRepository
	hallRepo        domain.TheatreHallRepository
	playRepo        domain.PlayRepository
	performanceRepo domain.PerformanceRepository
	reservationRepo domain.ReservationRepository
	ticketRepo      domain.TicketRepository
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	MediaDir         string
	Migrate          bool
	TokenTTL         time.Duration
	DB               DBConfig
	Redis            RedisConfig
	Lock             LockConfig
	SMTP             SMTPConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type LockConfig struct {
	TTL  time.Duration
	Wait time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// Repositories groups the persistence dependencies of the application.
type Repositories struct {
	Users        domain.UserRepository
	Tokens       domain.TokenRepository
	Genres       domain.GenreRepository
	Actors       domain.ActorRepository
	TheatreHalls domain.TheatreHallRepository
	Plays        domain.PlayRepository
	Performances domain.PerformanceRepository
	Reservations domain.ReservationRepository
	Tickets      domain.TicketRepository
}

func NewRepositories(db *pgxpool.Pool) Repositories {
	return Repositories{
		Users:        repository.NewPostgresUserRepository(db),
		Tokens:       repository.NewPostgresTokenRepository(db),
		Genres:       repository.NewPostgresGenreRepository(db),
		Actors:       repository.NewPostgresActorRepository(db),
		TheatreHalls: repository.NewPostgresTheatreHallRepository(db),
		Plays:        repository.NewPostgresPlayRepository(db),
		Performances: repository.NewPostgresPerformanceRepository(db),
		Reservations: repository.NewPostgresReservationRepository(db),
		Tickets:      repository.NewPostgresTicketRepository(db),
	}
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	validator *validator.Validate,
	mailer mailer.Mailer,
	images storage.ImageStore,
	locker lock.Locker,
	repos Repositories,
) *Application {
	return &Application{
		config:          cfg,
		logger:          logger,
		validator:       validator,
		mailer:          mailer,
		images:          images,
		booking:         booking.NewService(repos.Performances, repos.TheatreHalls, repos.Reservations, repos.Tickets, locker, logger),
		userRepo:        repos.Users,
		tokenRepo:       repos.Tokens,
		genreRepo:       repos.Genres,
		actorRepo:       repos.Actors,
		hallRepo:        repos.TheatreHalls,
		playRepo:        repos.Plays,
		performanceRepo: repos.Performances,
		reservationRepo: repos.Reservations,
		ticketRepo:      repos.Tickets,
	}
}

func Run() error {
	// values from .env become the flag defaults; a missing file is fine
	_ = godotenv.Load()

	var cfg Config

	flag.IntVar(&cfg.Port, "port", envInt("PORT", 3000), "server port")
	flag.StringVar(&cfg.Env, "env", envString("ENV", "dev"), "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", envString("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")
	flag.StringVar(&cfg.MediaDir, "media-dir", envString("MEDIA_DIR", "./media"), "Directory for uploaded play images")
	flag.BoolVar(&cfg.Migrate, "migrate", false, "Apply database migrations on start")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", 24*time.Hour, "Lifetime of authentication tokens")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", envString("DB_DSN", ""), "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", envString("REDIS_URL", ""), "Redis address; booking locks are process-local when empty")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.DurationVar(&cfg.Lock.TTL, "lock-ttl", 10*time.Second, "Expiry of a performance booking lock")
	flag.DurationVar(&cfg.Lock.Wait, "lock-wait", 3*time.Second, "Maximum wait for a performance booking lock")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", envString("SMTP_HOST", "sandbox.smtp.mailtrap.io"), "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", envInt("SMTP_PORT", 2525), "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", envString("SMTP_USERNAME", ""), "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", envString("SMTP_PASSWORD", ""), "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", envString("SMTP_SENDER", "Theatre <no-reply@theatre.example.com>"), "SMTP sender")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	shutdownTelemetry, err := initTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(
			slog.NewTextHandler(os.Stdout, nil),
			otelslog.NewHandler(serviceName),
		))
	}

	if cfg.Migrate {
		err = migrations.Up(cfg.DB.DSN)
		if err != nil {
			return err
		}

		logger.Info("database migrations applied")
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var locker lock.Locker

	if cfg.Redis.URL != "" {
		redisClient, err := NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		locker = lock.NewRedisLocker(redisClient, logger, cfg.Lock.TTL, cfg.Lock.Wait)
	} else {
		logger.Warn("redis url not set, booking locks only cover this process")
		locker = lock.NewLocalLocker(cfg.Lock.Wait)
	}

	app := NewApp(
		cfg,
		logger,
		appvalidator.NewValidator(),
		mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender),
		storage.NewLocalImageStore(cfg.MediaDir, mediaURLPrefix),
		locker,
		NewRepositories(db),
	)

	return app.run()
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go app.stopOnSignal(quit, srv.Shutdown, shutdownError)

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

// stopOnSignal waits for a signal, shuts the server down and reports the result
// on done exactly once.
func (app *Application) stopOnSignal(quit <-chan os.Signal, shutdown func(context.Context) error, done chan<- error) {
	s := <-quit

	app.logger.Info("shutting down server", "signal", s.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := shutdown(ctx)
	if err != nil {
		done <- err
		return
	}

	done <- nil
}
