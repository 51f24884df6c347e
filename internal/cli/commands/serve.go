package commands

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/leapstack-labs/leapcalc/internal/cli/config"
	"github.com/leapstack-labs/leapcalc/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Addr  string
	Dev   bool
	Watch bool
	Open  bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the LeapCalc web calculator",
		Long: `Start a web server hosting the calculator.

Each browser gets its own history, kept in a signed session cookie and the
configured history store. Enable the admin pages with admin.enabled and an
admin.password in leapcalc.yaml.`,
		Example: `  # Start on the default address
  leapcalc serve

  # Listen on all interfaces, port 3000
  leapcalc serve --addr 0.0.0.0 --port 3000

  # Development mode with asset reload
  leapcalc serve --dev --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Address to bind (default: 127.0.0.1)")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Development mode: serve assets from disk and enable reload")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload browsers when static assets change (requires --dev)")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the calculator in the default browser")

	return cmd
}

// applyServeOptions overrides configured server settings with flags the
// user set explicitly.
func applyServeOptions(cmd *cobra.Command, cfg *config.Config, opts *ServeOptions) config.ServerConfig {
	server := cfg.Server
	if cmd.Flags().Changed("port") {
		server.Port = opts.Port
	}
	if cmd.Flags().Changed("addr") {
		server.Addr = opts.Addr
	}
	if cmd.Flags().Changed("dev") {
		server.Dev = opts.Dev
	}
	if cmd.Flags().Changed("watch") {
		server.Watch = opts.Watch
	}
	server.ApplyDefaults()
	return server
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	serverCfg := applyServeOptions(cmd, cc.Cfg, opts)
	if serverCfg.Port < 1 || serverCfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", serverCfg.Port)
	}

	server, err := ui.NewServer(ui.Config{
		Store:   cc.Store,
		Server:  serverCfg,
		Session: cc.Cfg.Session,
		History: cc.Cfg.History,
		Admin:   cc.Cfg.Admin,
		Logger:  cc.Logger,
	})
	if err != nil {
		return err
	}

	url := "http://" + browserAddress(serverCfg)
	if opts.Open {
		go openBrowser(url)
	}

	r := cc.Renderer
	r.Printf("Starting LeapCalc on %s\n", url)
	if cc.Cfg.Admin.Enabled {
		r.Printf("Admin pages at %s/admin/history\n", url)
	}
	r.Muted("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// browserAddress returns a host:port a local browser can reach.
func browserAddress(cfg config.ServerConfig) string {
	host := cfg.Addr
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(cfg.Port))
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
