package integration_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/theatre-reservation-system/internal/app"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
	"github.com/metinatakli/theatre-reservation-system/internal/lock"
	"github.com/metinatakli/theatre-reservation-system/internal/mailer"
	"github.com/metinatakli/theatre-reservation-system/internal/repository"
	"github.com/metinatakli/theatre-reservation-system/internal/storage"
	appvalidator "github.com/metinatakli/theatre-reservation-system/internal/validator"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type TestApp struct {
	App         *app.Application
	DB          *pgxpool.Pool
	RedisClient *redis.Client
	Mailer      *mailer.MockMailer
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	mailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	locker := lock.NewRedisLocker(redisClient, logger, cfg.Lock.TTL, cfg.Lock.Wait)
	images := storage.NewLocalImageStore(cfg.MediaDir, "/media/")

	application := app.NewApp(
		cfg,
		logger,
		validator,
		mailer,
		images,
		locker,
		app.NewRepositories(db),
	)

	return &TestApp{
		App:         application,
		DB:          db,
		RedisClient: redisClient,
		Mailer:      mailer,
	}, nil
}

// createUserWithToken registers a user and returns a valid authentication token
// for it.
func (app *TestApp) createUserWithToken(t testing.TB, email string, isStaff bool) string {
	t.Helper()

	ctx := context.Background()

	user := domain.User{Email: email}
	require.NoError(t, user.Password.Set(TestUserPassword))
	require.NoError(t, repository.NewPostgresUserRepository(app.DB).Create(ctx, &user))

	if isStaff {
		_, err := app.DB.Exec(ctx, "UPDATE users SET is_staff = TRUE WHERE id = $1", user.ID)
		require.NoError(t, err)
	}

	token, err := domain.GenerateToken(int64(user.ID), time.Hour, domain.AuthenticationScope)
	require.NoError(t, err)
	require.NoError(t, repository.NewPostgresTokenRepository(app.DB).Create(ctx, token))

	return token.Plaintext
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Token " + token}
}
