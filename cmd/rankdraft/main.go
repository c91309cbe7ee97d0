package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rankdraft/rankdraft/internal/collect"
	"github.com/rankdraft/rankdraft/internal/config"
	"github.com/rankdraft/rankdraft/internal/database"
	"github.com/rankdraft/rankdraft/internal/export"
	"github.com/rankdraft/rankdraft/internal/extract"
	"github.com/rankdraft/rankdraft/internal/llm"
	"github.com/rankdraft/rankdraft/internal/seo"
	"github.com/rankdraft/rankdraft/internal/server"
	"github.com/rankdraft/rankdraft/internal/task"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "rankdraft",
	Short:   "SEO content pipeline",
	Long:    "RankDraft turns a search query and competitor sources into SEO analyses, content briefs, and draft articles.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// API keys may live in a local .env file.
		_ = godotenv.Load()

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("rankdraft", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/rankdraft/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure the LLM provider and server settings.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Printf("Users: %d\n\n", stats.Users)
		fmt.Println("Tasks:")
		fmt.Printf("  Runs: %d\n", stats.Runs)
		fmt.Printf("  Briefs: %d\n", stats.Briefs)
		fmt.Printf("  Articles: %d\n", stats.Articles)
		fmt.Println("\nBy status:")
		fmt.Printf("  Completed: %d\n", stats.CompletedTasks)
		fmt.Printf("  Failed: %d\n", stats.FailedTasks)
		fmt.Printf("  Queued or running: %d\n", stats.ActiveTasks)
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		// Records left queued or running by a previous process can
		// never make progress again.
		interrupted, err := db.FailInterrupted()
		if err != nil {
			return fmt.Errorf("failing interrupted tasks: %w", err)
		}
		if interrupted > 0 {
			log.Printf("Marked %d interrupted task(s) as failed", interrupted)
		}

		provider := llm.CreateProvider(cfg.LLM.Provider, cfg.LLM.OllamaModel, cfg.LLM.OllamaURL, cfg.LLM.APIKeyEnv)
		engine := seo.NewEngine(provider, seo.Models{
			Small:   cfg.LLM.SmallModel,
			Analyst: cfg.LLM.AnalystModel,
			Writer:  cfg.LLM.WriterModel,
		})

		pipe := task.NewPipeline(
			db,
			collect.NewCollector(cfg.Pipeline.MaxFeedItems),
			extract.NewExtractor(time.Duration(cfg.Pipeline.FetchTimeoutSeconds)*time.Second),
			engine,
			export.NewExporter(cfg.Output.ExportDir),
			cfg.Pipeline.MaxURLs,
		)

		pool := task.NewPool(cfg.Pipeline.Workers, cfg.Pipeline.QueueSize)
		defer pool.Close()

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, port)

		fmt.Printf("Starting server at http://%s\n", addr)
		fmt.Println("Press Ctrl+C to stop")
		return server.New(db, pipe, pool, cfg).Run(addr)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Override the configured port")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return database.Open(filepath.Join(dataDir, "rankdraft.db"))
}
