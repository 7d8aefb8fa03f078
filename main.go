package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"doubao-mcp/internal/common"
	"doubao-mcp/internal/logger"
	"doubao-mcp/internal/storage"
)

var (
	transport   = flag.String("transport", "", "Transport type: stdio or http (sse is accepted as an alias of http)")
	showVersion = flag.Bool("version", false, "Show version information")
)

// Version information - these will be set during build
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

const (
	serviceName = "doubao-mcp"
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", serviceName, version)
		fmt.Println("A Model Context Protocol server for Doubao image and video generation")
		fmt.Printf("Built: %s\n", buildTime)
		fmt.Printf("Commit: %s\n", gitCommit)
		return
	}

	// Load configuration
	config, err := common.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Override transport if specified via flag
	if *transport != "" {
		config.Transport = *transport
	}
	config.NormalizeTransport()

	logger.Init(config.LogLevel, config.LogFormat)

	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Configuration error")
	}
	if err := config.CheckCredential(); err != nil {
		log.Warn().Err(err).Msg("Tools will fail until the API key is configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize image source
	stor, err := storage.NewStorage(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer stor.Close()

	server := newServer(config, storage.NewResolver(stor))
	mcpServer := server.newMCPServer()

	log.Info().
		Str("version", version).
		Str("transport", config.Transport).
		Str("base_url", config.BaseURL).
		Msgf("Starting %s", serviceName)
	if config.S3Enabled {
		log.Info().Str("bucket", config.S3Bucket).Msg("S3 image source enabled")
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, cleaning up...")
		cancel()
	}()

	switch config.Transport {
	case "http":
		if err := runHTTPServer(ctx, mcpServer, config); err != nil {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	default:
		if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}
}

// runHTTPServer serves the router until ctx is cancelled.
func runHTTPServer(ctx context.Context, mcpServer *mcp.Server, config *common.Config) error {
	addr := ":" + config.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(mcpServer, config),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
