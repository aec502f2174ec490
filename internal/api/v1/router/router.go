package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/krzotki/eleven-labs-demo/docs"
	"github.com/krzotki/eleven-labs-demo/internal/api/v1/handler"
	"github.com/krzotki/eleven-labs-demo/internal/config"
	"github.com/krzotki/eleven-labs-demo/internal/middleware"
	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/pubsub"
	"github.com/krzotki/eleven-labs-demo/internal/repository"
	"github.com/krzotki/eleven-labs-demo/internal/repository/memory"
	"github.com/krzotki/eleven-labs-demo/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
)

// App is the wired HTTP surface and the resources it owns.
type App struct {
	Handler http.Handler
	Roasts  service.RoastService

	closers []func()
}

// Close waits for background work and releases every owned resource.
func (a *App) Close() {
	a.Roasts.Wait()
	a.closeAll()
}

// stores groups the repositories backing the bot.
type stores struct {
	usage        repository.UsageRepository
	subscription repository.SubscriptionRepository
	settings     repository.SettingsRepository
	messages     repository.MessageRepository
	db           handler.Pinger
}

func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Building router")
	app := &App{}

	// 1. Persistent store, or the in-memory one when no DSN is configured
	st, err := openStores(ctx, cfg, logger, app)
	if err != nil {
		app.closeAll()
		return nil, err
	}

	// 2. Secrets
	cryptoKey, err := resolveCryptoKey(ctx, cfg, logger)
	if err != nil {
		app.closeAll()
		return nil, err
	}

	// 3. Audit event publisher
	var publisher pubsub.Publisher
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			app.closeAll()
			return nil, fmt.Errorf("failed to create Pub/Sub publisher: %w", err)
		}
		publisher = p
		app.closers = append(app.closers, func() { _ = p.Close() })
	} else {
		logger.Warn().Msg("GCP_PROJECT_ID not set, audit events are stored but not published")
	}

	// 4. Clip storage
	var clips service.ClipStore
	if cfg.S3Bucket != "" {
		s3Client, err := newS3Client(ctx, cfg)
		if err != nil {
			app.closeAll()
			return nil, err
		}
		clips = service.NewS3ClipStore(s3Client, cfg.S3Bucket, cfg.ClipURLExpiry, logger)
	}

	// 5. Services
	limits := service.NewLimitsService(cfg.DashboardURL, logger)
	if err := limits.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("Using default limits")
	}
	speech := service.NewSpeechClient(cfg.ElevenLabsBaseURL, cfg.ElevenLabsAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, logger)
	generator := service.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, map[model.QualityTier]string{
		model.QualityBasic: cfg.OpenAIBasicModel,
		model.QualityRich:  cfg.OpenAIRichModel,
	})

	deps := service.RoastDependencies{
		Settings:     st.settings,
		Entitlements: service.NewEntitlementService(st.subscription, logger),
		Usage:        service.NewUsageService(st.usage, logger),
		Limits:       limits,
		Matches:      service.NewRiotClient(cfg.RiotAPIKey, service.WithRiotBaseURL(cfg.RiotBaseURL)),
		Generator:    generator,
		Audit:        service.NewAuditService(st.messages, publisher, cfg.PubSubAuditTopic, logger),
		Speech:       speech,
		Voices:       speech,
		Clips:        clips,
		Numbers:      generator,
		BotVoiceKey:  speech.BotAPIKey(),
	}
	app.Roasts = service.NewRoastService(service.RoastConfig{
		DashboardURL:       cfg.DashboardURL,
		SupportURL:         cfg.SupportURL,
		CryptoKey:          cryptoKey,
		MatchTimeout:       cfg.MatchTimeout,
		GenerationTimeout:  cfg.GenerationTimeout,
		SpeechTimeout:      cfg.SpeechTimeout,
		PersistenceTimeout: cfg.PersistenceTimeout,
	}, deps, logger)

	// 6. Handlers
	validate := validator.New(validator.WithRequiredStructEnabled())
	roastHandler := handler.NewRoastHandler(app.Roasts, validate, logger)
	voiceHandler := handler.NewVoiceHandler(speech, logger)
	healthHandler := handler.NewHealthHandler(st.db)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	// 7. Routes
	mux := http.NewServeMux()
	apiV1Mux := http.NewServeMux()
	roastHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	voiceHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	healthHandler.RegisterRoutes(apiV1Mux)
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	mux.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			http.Error(w, "Swagger document unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})

	// Redirect /api/* to /v1/* for older integrations
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		http.Redirect(w, r, "/v1/"+rest, http.StatusMovedPermanently)
	})

	// 8. CORS, logging and panic recovery
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	app.Handler = middleware.LoggerMiddleware(logger)(middleware.Recovery(logger)(c.Handler(mux)))
	return app, nil
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func openStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger, app *App) (*stores, error) {
	if cfg.DBConnectionString == "" {
		logger.Warn().Msg("DB_CONNECTION_STRING not set, using the in-memory store")
		mem := memory.New()
		return &stores{usage: mem, subscription: mem, settings: mem, messages: mem}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(withSSLMode(cfg.DBConnectionString, cfg.IsDevelopment()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}
	// Transaction poolers such as pgbouncer cannot use server-side prepared statements.
	if !cfg.IsDevelopment() {
		poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}
	poolCfg.MaxConns = 25

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB pool: %w", err)
	}
	app.closers = append(app.closers, pool.Close)
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	logger.Info().Msg("Database connection successful")

	return &stores{
		usage:        repository.NewUsageRepo(pool),
		subscription: repository.NewSubscriptionRepo(pool),
		settings:     repository.NewSettingsRepo(pool),
		messages:     repository.NewMessageRepo(pool),
		db:           pool,
	}, nil
}

// withSSLMode disables SSL for local development unless the DSN already says otherwise.
func withSSLMode(dsn string, dev bool) string {
	if !dev || strings.Contains(dsn, "sslmode") {
		return dsn
	}
	separator := " "
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		separator = "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
	}
	return dsn + separator + "sslmode=disable"
}

// resolveCryptoKey returns SECRET_CRYPTO_KEY, or reads it from Secret Manager
// when only the secret name is configured.
func resolveCryptoKey(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (string, error) {
	if cfg.SecretCryptoKey != "" || cfg.SecretCryptoKeySecret == "" {
		if cfg.SecretCryptoKey == "" {
			logger.Warn().Msg("No crypto key configured, custom ElevenLabs keys cannot be decrypted")
		}
		return cfg.SecretCryptoKey, nil
	}
	sm, err := service.NewSecretManagerService(ctx, cfg.GCPProjectID)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = sm.Close()
	}()
	key, err := sm.AccessSecret(ctx, cfg.SecretCryptoKeySecret)
	if err != nil {
		return "", fmt.Errorf("failed to read crypto key: %w", err)
	}
	return key, nil
}

func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		if cfg.S3URL != "" {
			o.BaseEndpoint = aws.String(cfg.S3URL)
			o.UsePathStyle = true
		}
	}), nil
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
