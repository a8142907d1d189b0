package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/commands/options"
	"tableflip.dev/a11yreq/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	o := &options.MCPOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server.",
		Long: `Launch an MCP server that exposes the clause catalogue, presets, wizard
questions and document composition as Model Context Protocol tools and
resources.`,
		Example: `
a11yreq mcp
a11yreq mcp --transport stdio
a11yreq mcp --http-port 0 --http-path /a11yreq
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, err := mcp.ParseTransport(o.Transport)
			if err != nil {
				return err
			}
			addr, err := o.Addr()
			if err != nil {
				return err
			}
			svc, err := service()
			if err != nil {
				return err
			}
			runner := mcp.Runner{
				Service:   svc,
				Name:      "a11yreq",
				Version:   version,
				Transport: transport,
				Addr:      addr,
				Path:      mcp.EndpointPath(o.Path),
				CertFile:  strings.TrimSpace(o.TLSCert),
				KeyFile:   strings.TrimSpace(o.TLSKey),
				Out:       out(cmd),
			}
			return runner.Do(contextFor(cmd))
		},
	}

	options.AddMCPArgs(cmd, o)
	topLevel.AddCommand(cmd)
}
