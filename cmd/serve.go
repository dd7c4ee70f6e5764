package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/worksheetgen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the worksheet HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		cfg := d.cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		cfg.ServiceName = d.cfg.Tracing.ServiceName
		if !d.cfg.Tracing.Enabled {
			cfg.ServiceName = ""
		}

		return server.New(cfg, d.generator, d.log).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides WORKSHEETGEN_ADDR)")
}
