package app

import (
	"cloudport-api/internal/attachment"
	"cloudport-api/internal/auth"
	"cloudport-api/internal/common"
	"cloudport-api/internal/config"
	"cloudport-api/internal/controller"
	"cloudport-api/internal/logquery"
	"cloudport-api/internal/metrics"
	"cloudport-api/internal/notify"
	"cloudport-api/internal/payment"
	"cloudport-api/internal/platform"
	"cloudport-api/internal/repo"
	"cloudport-api/internal/service"
	dynamoclient "cloudport-api/pkg/dynamo"
	"cloudport-api/pkg/http_server"
	"cloudport-api/pkg/logger"
	"cloudport-api/pkg/postgres"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
)

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func loadAWSConfig(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func runMigrations(pg *postgres.Postgres, sourceUrl string, databaseName string) error {
	driver, err := pgmigrate.WithInstance(pg.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		return err
	}

	migrations, err := migrate.NewWithDatabaseInstance(sourceUrl, databaseName, driver)
	if err != nil {
		return err
	}

	if err := migrations.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("no change made by migration scripts")
			return nil
		}

		return err
	}

	return nil
}

// openStore builds the repositories of the configured backend. The returned
// func releases the store's resources.
func openStore(cfg *config.Config, awsCfg aws.Config) (*repo.Repositories, func(), error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		slog.Info("connecting database")
		pg, err := postgres.NewDB(cfg.Store.PostgresConn)
		if err != nil {
			return nil, nil, err
		}

		slog.Info("running migrations", "source", cfg.Store.MigrationsPath)
		if err := runMigrations(pg, cfg.Store.MigrationsPath, cfg.Store.PostgresDatabase); err != nil {
			_ = pg.Close()
			return nil, nil, fmt.Errorf("migrations failed: %w", err)
		}

		return repo.NewRepositories(pg), func() { _ = pg.Close() }, nil
	case config.StoreDynamo:
		client := dynamoclient.NewClient(awsCfg, cfg.Store.DynamoEndpoint, cfg.Store.DynamoTablePrefix)
		return repo.NewDynamoRepositories(client), func() {}, nil
	default:
		slog.Warn("using in-memory store, data is lost on restart")
		return repo.NewMemoryRepositories(), func() {}, nil
	}
}

func logSources(cfg config.LogViewerConfig) []service.LogSource {
	return []service.LogSource{
		{LogType: common.LogTypePaymentErrors, Groups: cfg.PaymentGroups, Pattern: cfg.PaymentPattern},
		{LogType: common.LogTypeLoginFailures, Groups: cfg.LoginGroups, Pattern: cfg.LoginPattern},
		{LogType: common.LogTypeAPIErrors, Groups: cfg.APIGroups, Pattern: cfg.APIPattern},
	}
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load configuration", err)
	}
	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx := context.Background()
	awsCfg, err := loadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		fatal("failed to load aws configuration", err)
	}

	repositories, closeStore, err := openStore(cfg, awsCfg)
	if err != nil {
		fatal("failed to open store", err)
	}
	defer closeStore()

	m := metrics.New()
	deps := &service.Dependencies{
		Querier:    logquery.NewCloudWatchQuerier(awsCfg),
		LogSources: logSources(cfg.LogViewer),
		LogTimeout: cfg.LogViewer.QueryTimeout,
		FeePercent: cfg.Payment.FeePercentage,
		Currency:   cfg.Payment.Currency,
		Metrics:    m,
	}

	if cfg.Payment.PayjpSecretKey != "" {
		payjp := payment.NewPayjpGateway(cfg.Payment.PayjpAPIBase, cfg.Payment.PayjpSecretKey, cfg.Payment.Timeout)
		defer payjp.Close()
		deps.CardGateway = payjp
	} else {
		slog.Warn("PAYJP_SECRET_KEY is not set, card payments are disabled")
	}
	if cfg.Payment.AllowDemo {
		deps.DemoGateway = payment.NewDemoGateway()
	}
	if cfg.Events.ContractQueueURL != "" {
		deps.Publisher = notify.NewSQSPublisher(awsCfg, cfg.Events.ContractQueueURL)
	}
	if cfg.Attachments.Bucket != "" {
		deps.Signer = attachment.NewS3Signer(awsCfg, cfg.Attachments.Bucket, cfg.Attachments.URLExpiry)
	}

	services := service.NewServices(repositories, deps)
	authenticator := auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.AdminGroups)
	handler := echo.New()
	handler.HideBanner = true

	slog.Info("setup routes")
	controller.SetupRoutesHandlers(handler, services, authenticator, m)

	if config.IsLambda() {
		slog.Info("serving lambda events", "store", cfg.Store.Backend)
		platform.NewLambdaAdapter(handler).Start()
		return
	}

	slog.Info("starting server", "address", cfg.Server.Address, "store", cfg.Store.Backend)
	httpServer := http_server.New(handler, cfg.Server.Address)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		slog.Info("got signal", "signal", s.String())
	case err = <-httpServer.Notify():
		slog.Error("server stopped", "error", err)
	}

	slog.Info("shutting down")
	if err := httpServer.Shutdown(); err != nil {
		slog.Error("shutdown error", "error", err)
		return
	}
	slog.Info("successful shutdown")
}
