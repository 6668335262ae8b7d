package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/mood/pkg/classify"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerRecordMoodTool(srv, svc)
	registerRecordTextTool(srv, svc)
	registerRecordInferenceTool(srv, svc)
	registerGetCurrentMoodTool(srv, svc)
	registerGetHistoryTool(srv, svc)
	registerGetStatsTool(srv, svc)
	registerClearMoodsTool(srv, svc)
}

func labelsHint() string {
	labels := make([]string, 0, 6)
	for _, r := range classify.Rules() {
		labels = append(labels, r.Label)
	}
	return strings.Join(append(labels, "neutral"), ", ")
}

func registerRecordMoodTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"record_mood",
		mcp.WithDescription("Record the user's mood for today, or for a recent day."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description(fmt.Sprintf("Mood label such as %s.", labelsHint())),
		),
		mcp.WithString("score",
			mcp.Description("Optional score from 0 to 100. Defaults to the label's usual score."),
		),
		mcp.WithString("date",
			mcp.Description("Optional day as YYYY-MM-DD. Defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Label string `json:"label"`
			Score any    `json:"score"`
			Date  string `json:"date"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		score := ""
		if args.Score != nil {
			score = fmt.Sprint(args.Score)
		}
		dto, err := svc.RecordMood(ctx, RecordMoodOptions{
			Label: args.Label,
			Score: score,
			Date:  args.Date,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRecordTextTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"record_text",
		mcp.WithDescription("Classify a free-text message with the local keyword rules and record the result."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("What the user said about how they feel."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.RecordText(ctx, text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRecordInferenceTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"record_inference",
		mcp.WithDescription("Record an emotion you inferred from the conversation. It replaces today's keyword-based classification."),
		mcp.WithString("emotion",
			mcp.Required(),
			mcp.Description("One lower-case emotion word."),
		),
		mcp.WithNumber("intensity",
			mcp.Required(),
			mcp.Description("How strongly the emotion weighs on the user, 0 (barely) to 10 (overwhelming)."),
			mcp.Min(0),
			mcp.Max(10),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		emotion, err := request.RequireString("emotion")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		intensity, err := request.RequireFloat("intensity")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.RecordInference(ctx, emotion, intensity)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetCurrentMoodTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_current_mood",
		mcp.WithDescription("Fetch today's recorded mood, if any."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Current(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetHistoryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_history",
		mcp.WithDescription("List the recorded moods of the last seven days, oldest first."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.History(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetStatsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_stats",
		mcp.WithDescription("Average score, current streak and heatmap of the last seven days."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerClearMoodsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"clear_moods",
		mcp.WithDescription("Delete every recorded mood. Only call this when the user asks for it explicitly."),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !request.GetBool("confirm", false) {
			return mcp.NewToolResultError("confirm must be true to clear moods"), nil
		}
		if err := svc.Clear(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"cleared": true})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
