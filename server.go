package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"doubao-mcp/internal/ark"
	"doubao-mcp/internal/common"
	"doubao-mcp/internal/middleware"
	"doubao-mcp/internal/storage"
)

type Server struct {
	config  *common.Config
	storage *storage.Resolver
}

func newServer(config *common.Config, stor *storage.Resolver) *Server {
	if stor == nil {
		stor = storage.NewResolver(nil)
	}
	return &Server{config: config, storage: stor}
}

// newMCPServer builds the MCP server with every tool and resource registered.
func (s *Server) newMCPServer() *mcp.Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    serviceName,
		Version: version,
	}, nil)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)
	return mcpServer
}

// newClient builds a vendor client per call so a missing key is reported by
// the tool instead of at startup.
func (s *Server) newClient() (*ark.Client, error) {
	return ark.NewClient(ark.Config{
		APIKey:  s.config.APIKey,
		BaseURL: s.config.BaseURL,
		Timeout: s.config.HTTPTimeout,
	})
}

func (s *Server) newPoller(client *ark.Client) *ark.Poller {
	return ark.NewPoller(client, s.config.PollInterval, s.config.PollMaxAttempts)
}

// newRouter serves MCP over streamable HTTP next to health and metrics
// endpoints. Only /mcp requires a service token.
func newRouter(mcpServer *mcp.Server, config *common.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	handler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	var mcpHandler http.Handler = handler
	if config.AuthEnabled {
		log.Info().Int("tokens", len(config.ServiceTokens)).Msg("Authentication enabled")
		mcpHandler = middleware.AuthMiddleware(config.ServiceTokens, handler)
	} else {
		log.Warn().Msg("Authentication disabled - server is publicly accessible")
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName, "version": version})
	})
	router.GET("/readyz", func(c *gin.Context) {
		if !config.APIKeySet() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": common.ErrMissingAPIKey.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Any("/mcp", gin.WrapH(mcpHandler))

	return router
}
