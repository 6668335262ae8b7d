package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerCurrentResource(srv, svc)
	registerHistoryResource(srv, svc)
	registerStatsResource(srv, svc)
}

func registerCurrentResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"mood://current",
		"Current Mood",
		mcp.WithResourceDescription("Today's recorded mood, if any."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.Current(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerHistoryResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"mood://history",
		"Mood History",
		mcp.WithResourceDescription("Recorded moods of the last seven days, oldest first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.History(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerStatsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"mood://stats",
		"Mood Stats",
		mcp.WithResourceDescription("Average score, streak and heatmap of the rolling history."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
