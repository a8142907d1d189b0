package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/runner/serve"
	"tableflip.dev/a11yreq/pkg/timeutil"
	"tableflip.dev/a11yreq/pkg/web"
)

func addServe(topLevel *cobra.Command) {
	addr := ""
	ttl := timeutil.Duration(web.DefaultSessionTTL)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web pages and JSON API",
		Long: `Serve the requirements composer over HTTP: the create page, the editing
pages, a JSON API with selection sessions, /metrics and /healthz. The listen
address defaults to addr in .a11yreq.yaml.`,
		Example: `
a11yreq serve
a11yreq serve --addr :8080 --session-ttl 1h
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = settings.Addr
			}
			s := serve.Serve{
				Service:    svc,
				Addr:       addr,
				SessionTTL: time.Duration(ttl),
				Out:        out(cmd),
			}
			return s.Do(contextFor(cmd))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, example: --addr=localhost:8080.")
	cmd.Flags().Var(&ttl, "session-ttl", `How long an idle selection session is kept, example: --session-ttl=1d.`)

	topLevel.AddCommand(cmd)
}
