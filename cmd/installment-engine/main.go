package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhiadhaw0/installment-engine/internal/backend"
	"github.com/dhiadhaw0/installment-engine/internal/config"
	"github.com/dhiadhaw0/installment-engine/internal/engine"
	"github.com/dhiadhaw0/installment-engine/internal/lifecycle"
	"github.com/dhiadhaw0/installment-engine/internal/plan"
	"github.com/dhiadhaw0/installment-engine/internal/progress"
	"github.com/dhiadhaw0/installment-engine/internal/server"
	"github.com/dhiadhaw0/installment-engine/pkg/constants"
	"github.com/dhiadhaw0/installment-engine/pkg/datetime"
	"github.com/dhiadhaw0/installment-engine/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

type appContext struct {
	conf   *config.Configuration
	logger *zap.Logger
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &appContext{}

	var configLocation string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "installment-engine",
		Short:         "Compute financed installment plans and amortization schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfiguration(configLocation)
			if err != nil {
				return fmt.Errorf("loading configuration at %s: %w", configLocation, err)
			}
			logger, err := initializeLogger(conf.Logging, logLevel)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			app.conf = conf
			app.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newPlanCmd(app))
	rootCmd.AddCommand(newServeCmd(app))

	return rootCmd.Execute()
}

func newQuoteCmd(app *appContext) *cobra.Command {
	var (
		totalAmount  float64
		downPayment  float64
		periodCount  int
		frequency    string
		startDate    string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute an installment quote and print its schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := app.conf.BuildRateTable()
			if err != nil {
				return err
			}

			start := time.Now().UTC().Truncate(24 * time.Hour)
			if startDate != "" {
				start, err = time.Parse(datetime.DateLayout, startDate)
				if err != nil {
					return fmt.Errorf("invalid --start date, expected YYYY-MM-DD: %w", err)
				}
			}

			governor := engine.NewGovernor(table, app.logger)
			result, err := governor.Apply(plan.PlanParameters{
				TotalAmount: totalAmount,
				DownPayment: downPayment,
				PeriodCount: periodCount,
				Frequency:   plan.Frequency(strings.ToUpper(frequency)),
			}, nil, start)
			if err != nil {
				return err
			}

			switch outputFormat {
			case constants.OutputFormatPretty:
				output.PrettyFormat(cmd.OutOrStdout(), result)
			case constants.OutputFormatCSV:
				output.CsvFormat(cmd.OutOrStdout(), result)
			default:
				return fmt.Errorf("invalid output format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&totalAmount, "total", 0, "total purchase amount")
	cmd.Flags().Float64Var(&downPayment, "down", 0, "down payment")
	cmd.Flags().IntVar(&periodCount, "periods", 1, "number of installments")
	cmd.Flags().StringVar(&frequency, "frequency", "monthly", "payment frequency: weekly, monthly, quarterly")
	cmd.Flags().StringVar(&startDate, "start", "", "schedule start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&outputFormat, "output-format", constants.OutputFormatPretty, "output format: pretty, csv")
	_ = cmd.MarkFlagRequired("total")

	return cmd
}

func newPlanCmd(app *appContext) *cobra.Command {
	var (
		userID       string
		formationID  string
		totalAmount  float64
		downPayment  float64
		periodCount  int
		frequency    string
		startDate    string
		outputFormat string
		confirm      bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run the installment flow against the backend and optionally confirm the plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.conf.Backend.BaseURL == "" {
				return fmt.Errorf("no backend configured; set backend.baseUrl in the configuration file")
			}

			table, err := app.conf.BuildRateTable()
			if err != nil {
				return err
			}

			start := time.Now().UTC().Truncate(24 * time.Hour)
			if startDate != "" {
				start, err = time.Parse(datetime.DateLayout, startDate)
				if err != nil {
					return fmt.Errorf("invalid --start date, expected YYYY-MM-DD: %w", err)
				}
			}

			var cache backend.Cache
			if app.conf.Cache.RedisAddress != "" {
				cache = backend.NewRedisCache(app.conf.Cache.RedisAddress, app.conf.CacheTTL())
			}
			client := backend.NewClient(app.conf.Backend.BaseURL, app.conf.BackendTimeout(), cache, app.logger)

			governor := engine.NewGovernor(table, app.logger)
			controller := lifecycle.NewController(governor, client, client, client, app.logger)

			ctx := cmd.Context()
			if err := controller.EnterFlow(ctx, userID, formationID, totalAmount, start); err != nil {
				return err
			}
			if err := controller.AdvanceToCalculator(); err != nil {
				if verdict := controller.Eligibility(); verdict != nil && len(verdict.Reasons) > 0 {
					return fmt.Errorf("%w: %s", err, strings.Join(verdict.Reasons, "; "))
				}
				return err
			}

			result, err := controller.UpdateParameters(plan.PlanParameters{
				TotalAmount: totalAmount,
				DownPayment: downPayment,
				PeriodCount: periodCount,
				Frequency:   plan.Frequency(strings.ToUpper(frequency)),
			})
			if err != nil {
				return err
			}

			switch outputFormat {
			case constants.OutputFormatPretty:
				output.PrettyFormat(cmd.OutOrStdout(), result)
			case constants.OutputFormatCSV:
				output.CsvFormat(cmd.OutOrStdout(), result)
			default:
				return fmt.Errorf("invalid output format: %s", outputFormat)
			}

			if !confirm {
				return nil
			}

			created, err := controller.Confirm(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nPlan %s created (reference %s, status %s, credit guarantee %.2f)\n",
				created.ID, created.Reference, created.Status, created.CreditGuarantee)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user identifier")
	cmd.Flags().StringVar(&formationID, "formation", "", "product identifier")
	cmd.Flags().Float64Var(&totalAmount, "total", 0, "total purchase amount")
	cmd.Flags().Float64Var(&downPayment, "down", 0, "down payment")
	cmd.Flags().IntVar(&periodCount, "periods", 1, "number of installments")
	cmd.Flags().StringVar(&frequency, "frequency", "monthly", "payment frequency: weekly, monthly, quarterly")
	cmd.Flags().StringVar(&startDate, "start", "", "schedule start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&outputFormat, "output-format", constants.OutputFormatPretty, "output format: pretty, csv")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "submit the plan to the backend after computing it")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("total")

	return cmd
}

func newServeCmd(app *appContext) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quote API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := app.conf.BuildRateTable()
			if err != nil {
				return err
			}

			listen := app.conf.Server.Address
			if address != "" {
				listen = address
			}

			var tracker *progress.Tracker
			if app.conf.Backend.BaseURL != "" {
				var cache backend.Cache
				if app.conf.Cache.RedisAddress != "" {
					cache = backend.NewRedisCache(app.conf.Cache.RedisAddress, app.conf.CacheTTL())
				}
				client := backend.NewClient(app.conf.Backend.BaseURL, app.conf.BackendTimeout(), cache, app.logger)
				tracker = progress.NewTracker(client, app.logger)
			}

			governor := engine.NewGovernor(table, app.logger)
			handler := server.NewHandler(governor, table, tracker, app.logger, version)

			app.logger.Info("serving quote API",
				zap.String("op", "main.serve"),
				zap.String("address", listen),
			)

			srv := &http.Server{
				Addr:              listen,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address override (default from config)")

	return cmd
}
