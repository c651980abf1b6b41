package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/thyrotrack/thyrotrack/internal/config"
	"github.com/thyrotrack/thyrotrack/internal/domain/account"
	"github.com/thyrotrack/thyrotrack/internal/domain/clinicaladvice"
	"github.com/thyrotrack/thyrotrack/internal/domain/food"
	"github.com/thyrotrack/thyrotrack/internal/domain/pregnancy"
	"github.com/thyrotrack/thyrotrack/internal/domain/profile"
	"github.com/thyrotrack/thyrotrack/internal/domain/report"
	"github.com/thyrotrack/thyrotrack/internal/domain/tsh"
	"github.com/thyrotrack/thyrotrack/internal/platform/auth"
	"github.com/thyrotrack/thyrotrack/internal/platform/db"
	"github.com/thyrotrack/thyrotrack/internal/platform/inference"
	"github.com/thyrotrack/thyrotrack/internal/platform/llm"
	"github.com/thyrotrack/thyrotrack/internal/platform/middleware"
	"github.com/thyrotrack/thyrotrack/internal/platform/notification"
	"github.com/thyrotrack/thyrotrack/internal/platform/otp"
	"github.com/thyrotrack/thyrotrack/internal/platform/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "thyrotrack-server",
		Short:        "Thyroid health tracking API server",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect model artifacts",
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Load every model artifact and report its shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = os.Getenv("MODEL_DIR")
			}
			if dir == "" {
				dir = "./models"
			}
			return checkModels(cmd.OutOrStdout(), dir)
		},
	}
	checkCmd.Flags().String("dir", "", "model directory (defaults to MODEL_DIR or ./models)")

	cmd.AddCommand(checkCmd)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "thyrotrack-server", version)
		},
	}
}

func checkModels(w io.Writer, dir string) error {
	reg, err := inference.LoadRegistry(dir)
	if err != nil {
		return fmt.Errorf("load models from %s: %w", dir, err)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tKIND\tFEATURES")
	for _, a := range reg.Artifacts() {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", a.File, a.Kind, a.Width)
	}
	return tw.Flush()
}

func newLogger(env, level string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}

// app holds the wired dependencies the router needs.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	pool    *pgxpool.Pool
	metrics *telemetry.Collector
	tokens  *auth.TokenIssuer
	otps    *otp.Store
	mailer  *notification.Mailer
	models  *inference.Registry
	advisor llm.Generator
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := newLogger(cfg.Env, cfg.LogLevel)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBSchema)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Str("schema", cfg.DBSchema).Msg("connected to database")

	models, err := inference.LoadRegistry(cfg.ModelDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.ModelDir).Msg("failed to load models")
	}
	for _, a := range models.Artifacts() {
		logger.Info().Str("file", a.File).Str("kind", string(a.Kind)).Int("features", a.Width).Msg("model loaded")
	}

	ollama, err := llm.NewOllamaGenerator(cfg.OllamaHost, cfg.AdviceModel, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure advice generator")
	}
	advisor := llm.NewBreakerGenerator(ollama, llm.BreakerConfig{
		MaxFailures: uint32(cfg.AdviceFailMax),
		Cooldown:    cfg.AdviceCooldown,
		CallTimeout: cfg.AdviceTimeout,
	}, logger)

	key, generated, err := auth.ResolveSigningKey(cfg.JWTSigningKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve signing key")
	}
	if generated {
		logger.Warn().Msg("JWT_SIGNING_KEY not set; sessions will not survive a restart")
	}

	metrics := telemetry.NewCollector()

	var sender notification.EmailSender
	if cfg.SMTPHost != "" {
		sender = notification.NewSMTPSender(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		sender = notification.NewLogSender(logger)
	}

	otps := otp.NewStore(cfg.OTPTTL, cfg.OTPMaxAttempts)
	otps.StartCleanup(ctx, time.Minute)

	e := newRouter(ctx, &app{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		metrics: metrics,
		tokens:  auth.NewTokenIssuer(key, cfg.JWTTTL),
		otps:    otps,
		mailer:  notification.NewMailer(sender, metrics, logger),
		models:  models,
		advisor: advisor,
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("version", version).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newRouter assembles middleware and routes. ctx bounds background sweeps.
// A nil pool serves only the routes that never touch the database.
func newRouter(ctx context.Context, a *app) *echo.Echo {
	cfg := a.cfg

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(a.logger)

	// Global middleware
	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(middleware.Sanitize(a.logger))
	e.Use(a.metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(middleware.BodyLimit(cfg.BodyLimit, map[string]string{"/send-email": cfg.ReportLimit}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	if cfg.AuthRequired {
		e.Use(auth.RequireToken(a.tokens, auth.AuthSkipper))
	}
	e.Use(middleware.Audit(a.logger))
	if a.pool != nil {
		// The food route waits on the advice model between its two queries.
		e.Use(db.ConnMiddleware(a.pool, "/recommend/food_recommendations"))
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if a.pool != nil {
		e.GET("/health/db", db.HealthHandler(a.pool))
	}
	e.GET("/metrics", a.metrics.Handler())

	// Authentication
	rl := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		IdleTTL:           10 * time.Minute,
	}
	if rl.RequestsPerSecond <= 0 {
		rl = middleware.DefaultRateLimitConfig()
	}
	accountSvc := account.NewService(account.NewRepo(a.pool), a.otps, a.mailer, a.tokens, a.metrics, a.logger)
	account.NewHandler(accountSvc).RegisterRoutes(e.Group("/auth", middleware.RateLimit(ctx, rl)))

	// Patient profile & history
	adviceSvc := clinicaladvice.NewService(clinicaladvice.NewRepo(a.pool))
	clinicaladvice.NewHandler(adviceSvc).RegisterRoutes(e.Group("/advice", middleware.NoCache()))

	profileHandler := profile.NewHandler(profile.NewService(profile.NewRepo(a.pool), a.logger))
	profileHandler.RegisterPersonalDataRoutes(e.Group("/personaldata"))
	profileHandler.RegisterPatientRoutes(e.Group("/patient"))

	// Predictions
	tshSvc := tsh.NewService(tsh.NewRepo(a.pool), a.models.TSHHyper, a.models.TSHHypo, a.metrics, a.logger)
	tshHandler := tsh.NewHandler(tshSvc)
	tshHandler.RegisterPredictionRoutes(e.Group("/tsh"))
	tshHandler.RegisterRecordRoutes(e.Group("/health"))
	tshHandler.RegisterHistoryRoutes(e.Group("/his"))
	tshHandler.RegisterChartRoutes(e.Group("/charts"))

	foodSvc := food.NewService(food.NewRepo(a.pool), food.Models{
		Classifier: a.models.FoodClassifier,
		Scaler:     a.models.FoodScaler,
		Encoder:    a.models.GenderEncoder,
	}, a.advisor, a.metrics, a.logger)
	food.NewHandler(foodSvc).RegisterRoutes(e.Group("/recommend", middleware.NoCache()))

	pregSvc := pregnancy.NewService(pregnancy.NewRepo(a.pool), a.models.PregnancyRisk, a.metrics, a.logger)
	pregnancy.NewHandler(pregSvc).RegisterRoutes(e.Group("/pregnancy"))

	// Notification
	reportSvc := report.NewService(report.NewRepo(a.pool), a.mailer)
	report.NewHandler(reportSvc).RegisterRoutes(e.Group(""))

	return e
}
