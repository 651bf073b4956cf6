package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/mux"
	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	plugininadapter "visitlog/internal/modules/plugin/adapter/in"
	pluginoutadapter "visitlog/internal/modules/plugin/adapter/out"
	pluginin "visitlog/internal/modules/plugin/port/in"
	pluginservice "visitlog/internal/modules/plugin/service"
	pluginusecase "visitlog/internal/modules/plugin/usecase"
	presenceinadapter "visitlog/internal/modules/presence/adapter/in"
	presenceoutadapter "visitlog/internal/modules/presence/adapter/out"
	presenceservice "visitlog/internal/modules/presence/service"
	presenceusecase "visitlog/internal/modules/presence/usecase"
	reportinadapter "visitlog/internal/modules/report/adapter/in"
	reportoutadapter "visitlog/internal/modules/report/adapter/out"
	reportservice "visitlog/internal/modules/report/service"
	reportusecase "visitlog/internal/modules/report/usecase"
	visitorinadapter "visitlog/internal/modules/visitor/adapter/in"
	visitoroutadapter "visitlog/internal/modules/visitor/adapter/out"
	visitordomain "visitlog/internal/modules/visitor/domain"
	visitorservice "visitlog/internal/modules/visitor/service"
	visitorusecase "visitlog/internal/modules/visitor/usecase"
	"visitlog/internal/platform/clock"
	"visitlog/internal/platform/config"
	"visitlog/internal/platform/httpx"
	"visitlog/internal/platform/id"
	"visitlog/internal/platform/storage/sqlite"
	"visitlog/internal/platform/token"
	uiapp "visitlog/internal/ui/app"
)

type App struct {
	Config config.Config
	Logger hclog.Logger

	VisitorCLI  visitorinadapter.CLIHandler
	PresenceCLI presenceinadapter.CLIHandler
	ReportCLI   reportinadapter.CLIHandler
	PluginCLI   plugininadapter.CLIHandler

	db          *sql.DB
	tokens      *token.Issuer
	visitorHTTP visitorinadapter.HTTPHandler
	presHTTP    presenceinadapter.HTTPHandler
	reportHTTP  reportinadapter.HTTPHandler
}

func New(ctx context.Context, cfg config.Config, logger hclog.Logger) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	txm := sqlite.NewTxManager(db)

	visitorUC := visitorusecase.NewInteractor(visitorservice.NewVisitorService(
		clk,
		ids,
		visitoroutadapter.NewSQLiteProfileStore(db),
		visitoroutadapter.NewBcryptHasher(cfg.Auth.BcryptCost),
		logger.Named("visitor"),
	))

	presenceSvc := presenceservice.NewPresenceService(
		clk,
		ids,
		txm,
		presenceoutadapter.NewSQLiteLedger(db),
		presenceoutadapter.NewSQLiteDirectory(db, clk),
		presenceservice.Options{
			Location:              cfg.Location(),
			DeactivateConcurrency: cfg.Presence.DeactivateConcurrency,
			Logger:                logger.Named("presence"),
		},
	)
	presenceUC := presenceusecase.NewInteractor(presenceSvc, clk)

	reportUC := reportusecase.NewInteractor(reportservice.NewReportService(
		clk,
		reportoutadapter.NewSQLiteSessionReader(db),
		cfg.Location(),
	))

	var pluginUC pluginin.Usecase = pluginusecase.NewInteractor(pluginservice.NewPluginService(
		pluginoutadapter.NewFileManifestStore(cfg.PluginsPath),
		pluginoutadapter.NewGRPCHost(logger.Named("plugin")),
	))

	var tokens *token.Issuer
	if cfg.Auth.JWTSecret != "" {
		tokens = token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, clk.Now)
	}

	return &App{
		Config:      cfg,
		Logger:      logger,
		VisitorCLI:  visitorinadapter.NewCLIHandler(visitorUC),
		PresenceCLI: presenceinadapter.NewCLIHandler(presenceUC),
		ReportCLI:   reportinadapter.NewCLIHandler(reportUC, pluginUC),
		PluginCLI:   plugininadapter.NewCLIHandler(pluginUC),
		db:          db,
		tokens:      tokens,
		visitorHTTP: visitorinadapter.NewHTTPHandler(visitorUC, tokens, logger.Named("http")),
		presHTTP:    presenceinadapter.NewHTTPHandler(presenceUC, logger.Named("http")),
		reportHTTP:  reportinadapter.NewHTTPHandler(reportUC, pluginUC, logger.Named("http")),
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Router builds the HTTP surface. It needs a configured JWT secret.
func (a *App) Router() (http.Handler, error) {
	if a.tokens == nil {
		return nil, fmt.Errorf("auth.jwt_secret is not configured")
	}
	onError := func(w http.ResponseWriter, r *http.Request, err error) {
		httpx.WriteError(w, a.Logger, r, err)
	}
	authed := a.tokens.RequireAuth(onError)
	requireAdmin := token.RequireRole(string(visitordomain.RoleAdmin), onError)
	admin := func(next http.Handler) http.Handler { return authed(requireAdmin(next)) }

	r := mux.NewRouter()
	r.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.visitorHTTP.Register(r, admin)
	a.presHTTP.Register(r, authed, admin)
	a.reportHTTP.Register(r, admin)
	r.Use(httpx.AccessLog(a.Logger.Named("http")))
	r.Use(requestTimeout(a.Config.Presence.OperationTimeout, a.Config.Report.ExportTimeout))
	return r, nil
}

// requestTimeout bounds every request by the presence budget, except report
// requests, which may start an exporter plugin and get the export budget.
func requestTimeout(operation, export time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		short := httpx.WithTimeout(operation)(next)
		long := httpx.WithTimeout(export)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == reportinadapter.ReportPath {
				long.ServeHTTP(w, r)
				return
			}
			short.ServeHTTP(w, r)
		})
	}
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if err := a.db.PingContext(r.Context()); err != nil {
		httpx.WriteError(w, a.Logger, r, sqlite.Classify("ping", err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Serve runs the HTTP server until ctx is cancelled, then drains it.
func (a *App) Serve(ctx context.Context) error {
	if err := a.Config.RequireServe(); err != nil {
		return err
	}
	handler, err := a.Router()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: a.Config.HTTP.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		a.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) shutdownTimeout() time.Duration {
	if a.Config.HTTP.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return a.Config.HTTP.ShutdownTimeout
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.PresenceCLI, app.ReportCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
