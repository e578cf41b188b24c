package server

import (
	"net/http"

	"github.com/chat2db/designer/internal/clients"
	"github.com/chat2db/designer/internal/config"
	"github.com/chat2db/designer/internal/handlers"
	"github.com/chat2db/designer/internal/middlewares"
	"github.com/chat2db/designer/internal/routes"
	"github.com/chat2db/designer/internal/services"
	"github.com/chat2db/designer/internal/sqlcheck"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies lets callers swap the external services, mainly in tests.
// Nil fields are built from the config.
type Dependencies struct {
	Agent  clients.AgentClient
	SQLGen clients.SQLGenClient
	Opener services.ReaderOpener
}

// NewServer wires the services and returns the configured HTTP server.
func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) (*http.Server, error) {
	router, err := NewRouter(cfg, logger, deps)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return server, nil
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Dependencies) (*gin.Engine, error) {
	diagramCfg, err := services.NewDiagramConfig(cfg.Diagram)
	if err != nil {
		return nil, err
	}

	if deps.Agent == nil {
		deps.Agent = clients.NewHTTPAgentClient(cfg.Agent.URL, cfg.Agent.Timeout)
	}
	if deps.SQLGen == nil {
		deps.SQLGen = clients.NewHTTPSQLGenClient(cfg.SQLGen.URL, cfg.SQLGen.Timeout)
	}

	// Dependency injection
	sessionService := services.NewSessionService(diagramCfg, nil, logger)
	tableService := services.NewTableService(sessionService)
	relationService := services.NewRelationService(sessionService)
	diagramService := services.NewDiagramService(sessionService)
	chatService := services.NewChatService(sessionService, deps.Agent, logger)
	exportService := services.NewExportService(sessionService, deps.SQLGen, sqlcheck.NewChecker(), cfg.Export, logger)
	schemaService := services.NewSchemaService(sessionService, deps.Opener, logger)

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middlewares.Recovery(logger), middlewares.RequestLogger(logger), middlewares.CORS(cfg.CORS.AllowedOrigins))

	routes.RegisterRoutes(router, routes.Handlers{
		Session:  handlers.NewSessionHandler(sessionService),
		Table:    handlers.NewTableHandler(tableService),
		Relation: handlers.NewRelationHandler(relationService),
		Diagram:  handlers.NewDiagramHandler(diagramService),
		Chat:     handlers.NewChatHandler(chatService),
		Schema:   handlers.NewSchemaHandler(schemaService, exportService),
	})

	logger.Info("router ready",
		zap.String("agent_url", cfg.Agent.URL),
		zap.String("sqlgen_url", cfg.SQLGen.URL),
		zap.String("direction", string(diagramCfg.Direction)),
	)
	return router, nil
}
