package cmd

import (
	"fmt"
	"net"
	"os"

	"github.com/inovacc/journal/internal/notify"
	"github.com/inovacc/journal/internal/reflections"
	"github.com/inovacc/journal/internal/serverinfo"
	"github.com/inovacc/journal/internal/web"
	"github.com/spf13/cobra"
)

var (
	webHost          string
	webPort          int
	webOpenBrowser   bool
	webNoReflections bool
)

func init() {
	rootCmd.AddCommand(webCmd)

	webCmd.Flags().StringVar(&webHost, "host", "", "Host to bind (default from config)")
	webCmd.Flags().IntVarP(&webPort, "port", "p", 0, "Port to run the web server on (default from config)")
	webCmd.Flags().BoolVar(&webOpenBrowser, "open", false, "Open the journal in the default browser")
	webCmd.Flags().BoolVar(&webNoReflections, "no-reflections", false, "Don't serve /api/reflections")
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the journal web app",
	Long: `Start a local web server with the journal page: the entry form, the
merged entry list with copy and delete actions, search, statistics and
exports. The reflections API is served on the same origin unless
--no-reflections is given.

Examples:
  journal web                    # Start on the configured port (8080)
  journal web --port 9000        # Start on custom port
  journal web --open             # Open the browser once started`,
	RunE: runWeb,
}

func runWeb(cmd *cobra.Command, _ []string) error {
	ctx, cancel := withSignals(cmd.Context())
	defer cancel()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	config := web.Config{
		Host:        a.cfg.Web.Host,
		Port:        a.cfg.Web.Port,
		OpenBrowser: a.cfg.Web.OpenBrowser || webOpenBrowser,
	}

	if webHost != "" {
		config.Host = webHost
	}

	if webPort != 0 {
		config.Port = webPort
	}

	deps := web.Deps{
		Journal: a.journal,
		Local:   a.local,
		Form:    a.formConfig(),
		Metrics: a.metrics,
		Logger:  a.logger,
	}

	// Requests cannot prompt, so only a configured permission lets the webhook through.
	if sender := a.webhook(nil); sender != nil {
		deps.Native = notify.Native(sender)
	}

	if !webNoReflections {
		deps.Reflections = reflections.NewAPI(reflections.NewFileStore(reflectionsPath(), reflections.WithLogger(a.logger)), a.logger)
	}

	server, err := web.New(config, deps)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	addr, err := server.Listen()
	if err != nil {
		return err
	}

	registry := serverinfo.Default()
	if err := registry.Write(serverinfo.Web, addr.String(), addr.(*net.TCPAddr).Port); err != nil {
		a.logger.Warn("failed to record server info", "error", err)
	}
	defer registry.Remove(serverinfo.Web)

	_, _ = fmt.Fprintf(os.Stdout, "Journal running on http://%s\n", addr)
	_, _ = fmt.Fprintln(os.Stdout, "Press Ctrl+C to stop")

	return server.Start(ctx)
}
