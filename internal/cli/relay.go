package cli

import (
	"github.com/spf13/cobra"

	"github.com/sadopc/togglreport/internal/relay"
)

type relayCmd struct {
	cli      *CLI
	addr     string
	envFile  string
	upstream string
}

func (cli *CLI) newRelayCmd() *cobra.Command {
	rc := &relayCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the HTTP relay in front of the Toggl API",
		Long:  "Serves / and /api-proxy with ?endpoint=<api path>. RELAY_HOST and RELAY_PORT from the environment or the .env file override the address.",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.addr, "addr", "", "Listen address (default relay_addr from the config)")
	cmd.Flags().StringVar(&rc.envFile, "env", ".env", "dotenv file with RELAY_HOST/RELAY_PORT")
	cmd.Flags().StringVar(&rc.upstream, "upstream", "", "Upstream API (default api_base_url from the config)")

	return cmd
}

func (rc *relayCmd) run(cmd *cobra.Command, _ []string) error {
	cfg := rc.cli.cfg
	fallback := rc.addr
	if fallback == "" {
		fallback = cfg.RelayAddr
	}
	addr, err := relay.ListenAddr(rc.envFile, fallback)
	if err != nil {
		return err
	}
	upstream := rc.upstream
	if upstream == "" {
		upstream = cfg.APIBaseURL
	}

	srv, err := relay.NewServer(rc.cli.logger, relay.Config{Addr: addr, Upstream: upstream})
	if err != nil {
		return err
	}
	return srv.Start(cmd.Context())
}
