package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spigell/askme/internal/api"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the question answering tools over MCP on stdio",
	Run: func(_ *cobra.Command, _ []string) {
		serveMCP()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func serveMCP() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol, the logger writes to stderr.
	logger := newLogger()
	defer logger.Sync()

	a, err := newApplication(ctx, logger)
	if err != nil {
		logger.Fatal("preparing the application", zap.Error(err))
	}
	defer a.Close()

	s := api.NewMCPServer(a.resolver, version)

	logger.Info("serving mcp on stdio", zap.String("version", version))
	if err := server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Error("mcp server stopped", zap.Error(err))
	}
}
