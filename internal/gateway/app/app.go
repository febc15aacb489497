package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"prepwise/internal/gateway/config"
	"prepwise/internal/gateway/handler"
	"prepwise/internal/gateway/middleware"
	"prepwise/internal/gateway/server"
	authsvc "prepwise/internal/gateway/service/auth"
	feedbacksvc "prepwise/internal/gateway/service/feedback"
	"prepwise/internal/gateway/service/question"
	"prepwise/internal/gateway/service/view"
	"prepwise/internal/identity"
	"prepwise/internal/llm"
	"prepwise/internal/logging"
)

type App struct {
	server *server.Server
	stores *gatewayStores
	llm    llm.Client
	log    *zap.Logger
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logging.Init(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	// External services
	idp, err := identity.NewFirebaseProvider(ctx, identity.FirebaseConfig{
		ProjectID:       cfg.Auth.FirebaseProjectID,
		CredentialsFile: cfg.Auth.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init identity provider: %w", err)
	}
	gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
		RPS:    cfg.Gemini.RPS,
		Burst:  cfg.Gemini.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init generation client: %w", err)
	}
	stores, err := initStores(ctx, cfg, idp)
	if err != nil {
		return nil, err
	}
	if cfg.Vapi.WebToken == "" {
		log.Warn("NEXT_PUBLIC_VAPI_WEB_TOKEN is not set; voice sessions will fail to start")
	}

	// Services
	authService := authsvc.New(idp, stores.users)
	feedbackService := feedbacksvc.New(gemini, stores.feedback)
	questionService := question.New(gemini, stores.interviews)
	viewService := view.New(stores.interviews, feedbackService)

	// Routing & Server
	origins := middleware.NewOrigins(cfg.CORS.AllowedOrigins)
	mux := server.NewMux(server.Handlers{
		Generate:   handler.NewGenerateHandler(questionService),
		Auth:       handler.NewAuthHandler(authService, cfg.Production()),
		Interviews: handler.NewInterviewHandler(viewService, feedbackService),
		Sessions: handler.NewSessionHandler(viewService, feedbackService, handler.SessionConfig{
			WebToken:    cfg.Vapi.WebToken,
			WorkflowID:  cfg.Vapi.WorkflowID,
			CheckOrigin: origins.Allows,
		}),
		Covers: handler.NewCoverHandler(stores.covers),
	}, authService, origins)

	return &App{
		server: server.New(cfg.Port, mux),
		stores: stores,
		llm:    gemini,
		log:    log,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.stores.close()
	_ = a.llm.Close()
	_ = a.log.Sync()
	return err
}
