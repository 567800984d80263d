package commands

import (
	"github.com/spf13/cobra"

	"bottleneck-mcp/internal/httpserver"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over streamable HTTP, with /metrics and /healthz",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		httpCfg := cfg.HTTP
		if serveAddr != "" {
			httpCfg.Addr = serveAddr
		}
		return httpserver.New(newServer(), httpCfg, Version).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from HTTP_ADDR or :8080)")
	rootCmd.AddCommand(serveCmd)
}
