// Command seed fills a MongoDB database with example Safety App documents.
//
//	seed --drop
//	MONGO_URI=mongodb://db:27017 MONGO_DATABASE=safetyapp seed
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/seed"
	"github.com/dalemusser/safetyapp/internal/app/system/indexes"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Config is read from the environment (and an optional .env file).
type Config struct {
	MongoURI      string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string        `envconfig:"MONGO_DATABASE" default:"safetyapp"`
	Password      string        `envconfig:"SEED_PASSWORD" default:"Password123!"`
	Timeout       time.Duration `envconfig:"SEED_TIMEOUT" default:"60s"`
}

// loadConfig loads envFile when it exists and then processes the
// environment. A missing envFile is not an error.
func loadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	var (
		drop    bool
		envFile string
	)
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Insert example companies, users, contractors, work permits, activities and alerts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return run(cmd.Context(), cfg, drop, logger)
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "drop the seeded collections before inserting")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	return cmd
}

func run(ctx context.Context, cfg Config, drop bool, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	db := client.Database(cfg.MongoDatabase)
	counts, err := seed.Run(ctx, db, seed.Options{Drop: drop, Password: cfg.Password}, logger)
	if err != nil {
		return err
	}
	if err := indexes.EnsureAll(ctx, db, logger); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	total := 0
	for _, c := range counts {
		total += c.Inserted
	}
	logger.Info("seed complete", zap.Int("documents", total), zap.Int("collections", len(counts)))
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}
