// Command city-explorer starts the City Explorer game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, debug logging, and optional
// ngrok tunneling for easy external access during development. Every flag
// can also be set from the environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/cors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/city-explorer-game/api"
	"github.com/wricardo/city-explorer-game/game/config"
	"github.com/wricardo/city-explorer-game/game/service"
	"github.com/wricardo/city-explorer-game/game/session"
	"github.com/wricardo/city-explorer-game/transport/mcp"
	"github.com/wricardo/city-explorer-game/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "City Explorer Game Server"
)

const (
	sessionCleanupInterval = time.Hour
	sessionMaxAge          = 24 * time.Hour
	shutdownTimeout        = 10 * time.Second
)

// serverConfig is the resolved command line
type serverConfig struct {
	host        string
	port        int
	configDir   string
	debug       bool
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

func (c serverConfig) addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

func configFromCommand(cmd *cli.Command) serverConfig {
	return serverConfig{
		host:        cmd.String("host"),
		port:        cmd.Int("port"),
		configDir:   cmd.String("config-dir"),
		debug:       cmd.Bool("debug"),
		ngrok:       cmd.Bool("ngrok"),
		ngrokAuth:   cmd.String("ngrok-auth"),
		ngrokDomain: cmd.String("ngrok-domain"),
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "city-explorer",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing board configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: serverAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  serverAction,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server, starting an internal HTTP server when none is reachable",
				Action:  stdioMCPAction,
			},
		},
	}
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Both variants write to stderr, which
// keeps stdout free for the MCP stdio transport.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// services is the wired game backend
type services struct {
	logger   *zap.Logger
	hub      *websocket.Hub
	sessions *session.Manager
	game     service.GameService
}

// initializeServices wires config and session managers, the WebSocket hub
// and the game service. Engine changes flow straight to the hub.
func initializeServices(configDir string, logger *zap.Logger) (*services, error) {
	configManager, err := config.NewManager(configDir, config.WithLogger(logger.Named("config")))
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	hub := websocket.NewHub(websocket.WithLogger(logger.Named("ws")))

	sessionManager := session.NewManager(
		session.WithLogger(logger.Named("session")),
		session.WithStateListener(hub.BroadcastState),
	)

	return &services{
		logger:   logger,
		hub:      hub,
		sessions: sessionManager,
		game:     service.NewGameService(sessionManager, configManager),
	}, nil
}

// run starts the hub and the session janitor and returns once ctx is done
func (s *services) run(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error { return s.hub.Run(ctx) })
	g.Go(func() error {
		return s.sessions.RunCleanup(ctx, sessionCleanupInterval, sessionMaxAge)
	})
	g.Go(func() error {
		<-ctx.Done()
		s.sessions.Close()
		return nil
	})
}

// newHandler mounts the REST API and the /mcp endpoint behind permissive CORS
func newHandler(s *services, mcpClient *mcp.Client) http.Handler {
	apiServer := api.NewServer(s.game, s.hub, api.WithLogger(s.logger.Named("api")))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	if mcpClient != nil {
		mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Failed to read request", http.StatusBadRequest)
				return
			}
			defer r.Body.Close()

			response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

			w.Header().Set("Content-Type", "application/json")
			responseData, err := json.Marshal(response)
			if err != nil {
				http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
				return
			}
			w.Write(responseData)
		})
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mainRouter)
}

// serveHTTP runs srv on l until ctx is done, then shuts it down gracefully
func serveHTTP(ctx context.Context, g *errgroup.Group, srv *http.Server, l net.Listener) {
	g.Go(func() error {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	cfg := configFromCommand(cmd)

	logger, err := newLogger(cfg.debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", "server"))

	svcs, err := initializeServices(cfg.configDir, logger)
	if err != nil {
		return err
	}

	addr := cfg.addr()
	handler := newHandler(svcs, mcp.NewClient("http://"+addr))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	svcs.run(ctx, g)
	serveHTTP(ctx, g, &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, listener)

	logger.Info("HTTP server listening",
		zap.String("rest", fmt.Sprintf("http://%s/api", addr)),
		zap.String("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)),
		zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)),
	)

	if cfg.ngrok {
		g.Go(func() error { return runTunnel(ctx, cfg, handler, logger.Named("ngrok")) })
	}

	err = g.Wait()
	logger.Info("server stopped")
	return err
}

// runTunnel exposes handler through ngrok until ctx is done. A tunnel that
// cannot start is logged and skipped; the local server keeps running.
func runTunnel(ctx context.Context, cfg serverConfig, handler http.Handler, logger *zap.Logger) error {
	if cfg.ngrokAuth == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return nil
	}

	var tunnel ngrokConfig.Tunnel
	if cfg.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.ngrokDomain))
		logger.Info("using custom ngrok domain", zap.String("domain", cfg.ngrokDomain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.ngrokAuth))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return nil
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	ngrokURL := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("rest", ngrokURL+"/api"),
		zap.String("mcp", ngrokURL+"/mcp"),
	)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		return fmt.Errorf("ngrok serve: %w", err)
	}
	logger.Info("ngrok tunnel closed")
	return nil
}

// externalAPIAvailable reports whether a server already answers at baseURL
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// stdioMCPAction runs an MCP stdio server. It reuses an API already
// listening on --host/--port; otherwise it starts an internal one bound to a
// random loopback port and targets that.
func stdioMCPAction(ctx context.Context, cmd *cli.Command) error {
	cfg := configFromCommand(cmd)

	logger, err := newLogger(cfg.debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	baseURL := "http://" + cfg.addr()
	if externalAPIAvailable(ctx, baseURL) {
		logger.Info("external API server found, using it for MCP", zap.String("url", baseURL))
	} else {
		logger.Info("no external API server found, starting internal HTTP server")

		svcs, err := initializeServices(cfg.configDir, logger)
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		svcs.run(gctx, g)
		serveHTTP(gctx, g, &http.Server{Handler: newHandler(svcs, nil)}, listener)
		logger.Info("internal HTTP server started", zap.String("url", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	serveErr := server.ServeStdio(mcpClient.GetMCPServer())
	cancel()
	if err := g.Wait(); err != nil {
		logger.Warn("internal server stopped with error", zap.Error(err))
	}
	if serveErr != nil {
		return fmt.Errorf("MCP stdio server: %w", serveErr)
	}
	return nil
}
