package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerClausesResource(srv, svc)
	registerClauseTemplate(srv, svc)
	registerInfosResource(srv, svc)
	registerPresetsResource(srv, svc)
	registerTreeResource(srv, svc)
}

func registerClausesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"a11yreq://clauses",
		"Clauses",
		mcp.WithResourceDescription("Every catalogue clause in natural number order."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		clauses, err := svc.ListClauses(ctx, clause.LangEN, "")
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"clauses": clauses,
			"count":   len(clauses),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerClauseTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"a11yreq://clauses/{ref}",
		"Clause Details",
		mcp.WithTemplateDescription("A single clause looked up by id or number."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ref := templateArgument(request, "ref")
		if ref == "" {
			return nil, fmt.Errorf("clause reference is required")
		}
		dto, err := svc.ClauseByRef(ctx, clause.LangEN, ref)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"clause": dto})
	})
}

func registerInfosResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"a11yreq://infos",
		"Info Sections",
		mcp.WithResourceDescription("Introductory and annex sections placed around the clauses."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		infos, err := svc.ListInfos(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"infos": infos,
			"count": len(infos),
		})
	})
}

func registerPresetsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"a11yreq://presets",
		"Presets",
		mcp.WithResourceDescription("Saved clause selections."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		presets, err := svc.ListPresets(ctx, clause.LangEN)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"presets": presets,
			"count":   len(presets),
		})
	})
}

func registerTreeResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"a11yreq://tree",
		"Clause Tree",
		mcp.WithResourceDescription("The clause hierarchy with nothing selected."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		nodes, err := svc.Tree(ctx, clause.LangEN, app.SelectionRequest{})
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"tree": nodes})
	})
}

func templateArgument(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
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
