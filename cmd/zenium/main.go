package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/StyNW7/Zenium/internal/api"
	"github.com/StyNW7/Zenium/internal/config"
	"github.com/StyNW7/Zenium/internal/corpus"
	"github.com/StyNW7/Zenium/internal/engine"
	"github.com/StyNW7/Zenium/internal/events"
	"github.com/StyNW7/Zenium/internal/feedback"
	"github.com/StyNW7/Zenium/internal/generation"
	"github.com/StyNW7/Zenium/internal/health"
	"github.com/StyNW7/Zenium/internal/index"
	"github.com/StyNW7/Zenium/internal/prompt"
	"github.com/StyNW7/Zenium/internal/safety"
	"github.com/StyNW7/Zenium/internal/session"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "config/config.yaml", "Configuration file path")
		showVer     = flag.Bool("version", false, "Show version information")
		showHelpFlg = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	if *showHelpFlg {
		showHelp()
		return
	}
	if *showVer {
		showVersion()
		return
	}

	log.Printf("Starting Zenium v%s (commit: %s, built: %s)", version, commit, date)

	cfg := config.Load(*configFile)

	gate, err := safety.NewGate(cfg.Safety)
	if err != nil {
		log.Fatalf("Failed to compile safety patterns: %v", err)
	}

	cache := index.NewCache(cfg.Index.ArtifactPath)
	loader := corpus.NewLoader(cfg.Corpus)
	composer := prompt.NewComposer(cfg.Session.HistoryWindow)

	checker := health.NewChecker()

	hosted := generation.NewOpenAIStrategy(cfg.Generation.OpenAI)
	strategies := []generation.Strategy{hosted}
	if cfg.Generation.Ollama.Enabled {
		local := generation.NewOllamaStrategy(cfg.Generation.Ollama)
		strategies = append(strategies, local)
		checker.Register(health.NewPingCheck("ollama", local, 2*time.Second))
	}
	strategies = append(strategies, generation.RetrievedStrategy{}, generation.StaticStrategy{})
	chain := generation.NewChain(strategies...)

	checker.Register(health.NewCheck("openai", func(ctx context.Context) health.Result {
		if !hosted.Configured() {
			return health.Result{Status: health.StatusDegraded, Message: "no API key configured"}
		}
		return health.Result{Status: health.StatusHealthy}
	}))

	var sessions session.Repository
	switch cfg.Session.Backend {
	case "redis":
		repo := session.NewRedisRepository(cfg.Session.Redis)
		checker.Register(health.NewPingCheck("redis", repo, 100*time.Millisecond))
		sessions = repo
	default:
		sessions = session.NewMemoryRepository()
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		kp := events.NewKafkaPublisher(cfg.Events)
		defer kp.Close()
		checker.Register(health.NewPingCheck("kafka", kp, 500*time.Millisecond))
		publisher = kp
	}

	feedbackPath := cfg.Corpus.FeedbackFile
	if !filepath.IsAbs(feedbackPath) {
		feedbackPath = filepath.Join(cfg.Corpus.DataDir, feedbackPath)
	}

	eng := engine.New(engine.Options{
		Loader:    loader,
		Cache:     cache,
		Gate:      gate,
		Composer:  composer,
		Chain:     chain,
		Sessions:  sessions,
		DayLog:    session.NewDayLog(cfg.Session.LogDir),
		Feedback:  feedback.NewStore(feedbackPath, cache),
		Publisher: publisher,
		TopK:      cfg.Retrieval.TopK,
	})

	checker.Register(health.NewCheck("index", func(ctx context.Context) health.Result {
		size := eng.CorpusSize()
		if size == 0 {
			return health.Result{Status: health.StatusDegraded, Message: "corpus is empty"}
		}
		return health.Result{Status: health.StatusHealthy, Message: fmt.Sprintf("%d corpus entries", size)}
	}))

	gateway := api.NewGateway(cfg.API, eng, checker)

	go func() {
		if err := gateway.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gateway failed: %v", err)
		}
	}()

	waitForShutdown(gateway)
}

func showHelp() {
	fmt.Printf(`Zenium - Conversational Response Engine

Usage:
  zenium [flags]

Flags:
  -config string
        Configuration file path (default "config/config.yaml")
  -version
        Show version information
  -help
        Show this help message

Examples:
  zenium                                    # Start with default config
  zenium -config config/production.yaml     # Start with production config
  zenium -version                           # Show version
`)
}

func showVersion() {
	fmt.Printf("Zenium version %s\n", version)
	fmt.Printf("Commit: %s\n", commit)
	fmt.Printf("Built: %s\n", date)
}

func waitForShutdown(gateway *api.Gateway) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, stopping services...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := gateway.Stop(shutdownCtx); err != nil {
		log.Printf("Error during gateway shutdown: %v", err)
	}
	log.Println("Zenium stopped")
}
