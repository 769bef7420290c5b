package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/mhutchens/taskbridge/internal/config"
	"github.com/mhutchens/taskbridge/internal/domain/project"
	"github.com/mhutchens/taskbridge/internal/domain/tag"
	"github.com/mhutchens/taskbridge/internal/domain/task"
	"github.com/mhutchens/taskbridge/internal/mcp"
	"github.com/mhutchens/taskbridge/internal/safety"
	"github.com/mhutchens/taskbridge/internal/script"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskbridge",
		Short:         "MCP server bridging AI assistants to a desktop task manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newCheckCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio or http transport)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			return serve(cfg)
		},
	}
}

func serve(cfg config.Config) error {
	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := os.Stdout
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	loc, err := cfg.Time.Location()
	if err != nil {
		return err
	}

	exec := bridge.NewOSAScript(logger)
	timeouts := bridge.Timeouts{
		Query:    cfg.Bridge.QueryTimeout(),
		Mutation: cfg.Bridge.MutationTimeout(),
	}

	guard, err := safety.New(safety.Config{
		Enabled:       !cfg.Safety.Disabled,
		TestMode:      cfg.Safety.TestMode,
		ExpectedStore: cfg.Safety.ExpectedStore,
	}, exec, timeouts.Mutation, logger)
	if err != nil {
		return err
	}

	taskSvc := task.NewService(exec, guard, timeouts, loc, logger)
	projectSvc := project.NewService(exec, taskSvc, guard, timeouts, loc, logger)
	tagSvc := tag.NewService(exec, guard, timeouts, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Tasks:    taskSvc,
			Projects: projectSvc,
			Tags:     tagSvc,
		},
		Logger: logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(logger, mcpServer)
	}
	return runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or the context is canceled.
	return mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	return httpServer.Shutdown(ctx)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the automation bridge and print the active store name",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			exec := bridge.NewOSAScript(logger)

			name, err := exec.Execute(cmd.Context(), script.DocumentName{}.Render(), cfg.Bridge.QueryTimeout())
			if err != nil {
				return fmt.Errorf("bridge check failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "active store: %s\n", name)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the taskbridge version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
