package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/render"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListClausesTool(srv, svc)
	registerGetClauseTool(srv, svc)
	registerGetTreeTool(srv, svc)
	registerListPresetsTool(srv, svc)
	registerEvaluateSelectionTool(srv, svc)
	registerComposeRequirementsTool(srv, svc)
}

// selectionArgs is shared by every tool that builds a selection.
type selectionArgs struct {
	All     bool     `json:"all"`
	Preset  string   `json:"preset"`
	Answers []string `json:"answers"`
	Select  []string `json:"select"`
	Lang    string   `json:"lang"`
}

func (a selectionArgs) request() app.SelectionRequest {
	return app.SelectionRequest{
		All:     a.All,
		Preset:  a.Preset,
		Answers: a.Answers,
		Select:  a.Select,
	}
}

func selectionOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithBoolean("all",
			mcp.Description("Start from every clause selected."),
		),
		mcp.WithString("preset",
			mcp.Description("Preset id or name to apply."),
		),
		mcp.WithArray("answers",
			mcp.Description("Wizard question ids answered yes."),
			mcp.WithStringItems(),
		),
		mcp.WithArray("select",
			mcp.Description("Clause numbers or ids to mark selected, whole branches included."),
			mcp.WithStringItems(),
		),
		langOption(),
	}
}

func langOption() mcp.ToolOption {
	return mcp.WithString("lang",
		mcp.Description("Language of names and document text."),
		mcp.Enum(string(clause.LangEN), string(clause.LangFR)),
	)
}

func registerListClausesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_clauses",
		mcp.WithDescription("List catalogue clauses, optionally filtered by number prefix or name."),
		mcp.WithString("query",
			mcp.Description("Clause number (matches the branch) or text found in the name."),
		),
		langOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lang, err := clause.ParseLang(request.GetString("lang", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		clauses, err := svc.ListClauses(ctx, lang, request.GetString("query", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"clauses": clauses,
			"count":   len(clauses),
		})
	})
}

func registerGetClauseTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_clause",
		mcp.WithDescription("Fetch one clause by id or number."),
		mcp.WithString("ref",
			mcp.Required(),
			mcp.Description("Clause id or number."),
		),
		langOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("ref")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		lang, err := clause.ParseLang(request.GetString("lang", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.ClauseByRef(ctx, lang, ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetTreeTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Return the clause hierarchy with the checked state of every node."),
	}, selectionOptions()...)
	tool := mcp.NewTool("get_tree", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args selectionArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		lang, err := clause.ParseLang(args.Lang)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		nodes, err := svc.Tree(ctx, lang, args.request())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"tree": nodes})
	})
}

func registerListPresetsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_presets",
		mcp.WithDescription("List saved presets with the clause numbers they select."),
		langOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lang, err := clause.ParseLang(request.GetString("lang", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		presets, err := svc.ListPresets(ctx, lang)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"presets": presets,
			"count":   len(presets),
		})
	})
}

func registerEvaluateSelectionTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Apply a preset, wizard answers and explicit clauses, then report node states and the selected clauses."),
	}, selectionOptions()...)
	tool := mcp.NewTool("evaluate_selection", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args selectionArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.Evaluate(ctx, args.request())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerComposeRequirementsTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Render the requirements document for a selection."),
		mcp.WithString("format",
			mcp.Description("Output format."),
			mcp.Enum(string(render.FormatHTML), string(render.FormatWord), string(render.FormatMarkdown), string(render.FormatText)),
		),
		mcp.WithString("title",
			mcp.Description("Document title. Defaults to the language's standard title."),
		),
	}, selectionOptions()...)
	tool := mcp.NewTool("compose_requirements", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			selectionArgs
			Format string `json:"format"`
			Title  string `json:"title"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		format, err := render.ParseFormat(args.Format)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if format == render.FormatHTML && args.Format == "" {
			format = render.FormatMarkdown
		}
		lang, err := clause.ParseLang(args.Lang)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := svc.Compose(ctx, args.request(), format, lang, args.Title)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
