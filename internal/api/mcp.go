package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spigell/askme/internal/resolver"
)

const maxRecentAnswers = 50

// NewMCPServer exposes the resolver as MCP tools.
func NewMCPServer(r *resolver.Resolver, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"askme",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions("askme answers questions about a person's background, skills, projects and experience."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Ask a question about the person's background and get the answer the chat widget would give."),
			mcp.WithString("question", mcp.Description("The question to answer"), mcp.Required()),
		),
		mcpAsk(r),
	)

	s.AddTool(
		mcp.NewTool("learned_stats",
			mcp.WithDescription("Report how many learned answers exist, split by origin and review state."),
		),
		mcpLearnedStats(r),
	)

	s.AddTool(
		mcp.NewTool("recent_answers",
			mcp.WithDescription("List the most recently learned question/answer pairs, newest first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of answers (default 10)")),
		),
		mcpRecentAnswers(r),
	)

	return s
}

func mcpAsk(r *resolver.Resolver) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}

		return mcpText(r.Answer(ctx, question)), nil
	}
}

func mcpLearnedStats(r *resolver.Resolver) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(r.Cache().Stats())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal stats: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRecentAnswers(r *resolver.Resolver) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > maxRecentAnswers {
			limit = maxRecentAnswers
		}

		answers := r.Cache().Recent(limit)
		if len(answers) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(answers)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal answers: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
