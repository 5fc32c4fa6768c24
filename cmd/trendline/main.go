package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/trendline/internal/logger"
	"github.com/rxtech-lab/trendline/internal/pipeline"
	"github.com/rxtech-lab/trendline/internal/render"
	"github.com/rxtech-lab/trendline/internal/types"
	"github.com/rxtech-lab/trendline/pkg/marketdata"
	"github.com/rxtech-lab/trendline/pkg/marketdata/provider"
)

// snapshotRows is how many trailing enriched bars the indicator table shows.
const snapshotRows = 10

// runAction fetches bars, runs the pipeline and prints the results.
func runAction(ctx context.Context, cmd *cli.Command) error {
	level := zapcore.InfoLevel
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, render.Failure(err))

		return err
	}

	interval, err := marketdata.ParseInterval(cmd.String("interval"))
	if err != nil {
		fmt.Fprintln(os.Stderr, render.Failure(err))

		return err
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  provider.ProviderType(cmd.String("provider")),
		PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
		CachePath:     cmd.String("cache"),
	}, log.Named("marketdata"))
	if err != nil {
		fmt.Fprintln(os.Stderr, render.Failure(err))

		return err
	}

	params := marketdata.FetchParams{
		Symbol:       cmd.String("symbol"),
		Interval:     interval,
		LookbackDays: int(cmd.Int("lookback")),
	}

	var bars []types.MarketData
	if cmd.Bool("offline") {
		bars, err = client.LoadCachedBars(params)
	} else {
		bars, err = client.FetchBars(ctx, params)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, render.Failure(err))

		return err
	}

	result, err := pipeline.Run(bars, cfg, log.Named("pipeline"))
	if err != nil {
		fmt.Fprintln(os.Stderr, render.Failure(err))

		return err
	}

	fmt.Println(render.IndicatorSnapshot(result.Enriched, snapshotRows))
	fmt.Println(render.SignalTable(result.Signals))
	fmt.Println(render.Summary(result.Backtest))

	return nil
}

// loadConfig builds the pipeline config from the optional yaml file, with
// the balance flag taking effect when no file is given.
func loadConfig(cmd *cli.Command) (pipeline.Config, error) {
	configPath := cmd.String("config")
	if configPath == "" {
		return pipeline.DefaultConfig(cmd.Float("balance")), nil
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg pipeline.Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return pipeline.Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// schemaAction prints the JSON schema for the pipeline config file.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	cfg := pipeline.DefaultConfig(0)

	schemaJSON, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schemaJSON)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "trendline",
		Usage: "Run an EMA/MACD crossover backtest over recent price history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Trading symbol (e.g., BTCUSDT for binance, AAPL for polygon)",
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   fmt.Sprintf("Bar interval, one of %v", marketdata.AllIntervals),
				Value:   string(marketdata.IntervalOneHour),
			},
			&cli.IntFlag{
				Name:    "lookback",
				Aliases: []string{"l"},
				Usage:   "Lookback window in days",
				Value:   30,
			},
			&cli.FloatFlag{
				Name:    "balance",
				Aliases: []string{"b"},
				Usage:   "Initial cash balance for the backtest",
				Value:   10000,
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider to use (e.g., %s, %s)", provider.ProviderBinance, provider.ProviderPolygon),
				Value:   string(provider.ProviderBinance),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a yaml pipeline config file (overrides --balance)",
			},
			&cli.StringFlag{
				Name:  "cache",
				Usage: "Path to a DuckDB file for caching fetched bars",
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Replay bars from the cache instead of fetching",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Print the JSON schema for the pipeline config file",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
