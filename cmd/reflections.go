package cmd

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/inovacc/journal/internal/reflections"
	"github.com/inovacc/journal/internal/serverinfo"
	"github.com/spf13/cobra"
)

var (
	reflectionsHost string
	reflectionsPort int
	reflectionsFile string
)

var reflectionsCmd = &cobra.Command{
	Use:   "reflections",
	Short: "Reflections API server commands",
	Long: `Run and manage the standalone reflections API. It stores reflections in a
JSON file and serves them at /api/reflections, the shape the journal reads
as its remote source.`,
}

var reflectionsServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reflections API",
	RunE:  runReflectionsServe,
}

var reflectionsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the reflections API is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := serverinfo.Default().Running(serverinfo.Reflections)
		if info == nil {
			_, _ = fmt.Fprintln(os.Stdout, "Reflections API is not running.")
			return nil
		}

		printInfoBox(os.Stdout, "Reflections API", [][2]string{
			{"URL", info.URL() + "/api/reflections"},
			{"PID", strconv.Itoa(info.PID)},
			{"Uptime", time.Since(info.StartedAt).Round(time.Second).String()},
		})

		return nil
	},
}

var reflectionsStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running reflections API",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := serverinfo.Default().Stop(serverinfo.Reflections)
		if errors.Is(err, serverinfo.ErrNoServerInfo) {
			_, _ = fmt.Fprintln(os.Stdout, "Reflections API is not running.")
			return nil
		}

		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(os.Stdout, "Stopped reflections API (PID %d)\n", info.PID)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reflectionsCmd)
	reflectionsCmd.AddCommand(reflectionsServeCmd)
	reflectionsCmd.AddCommand(reflectionsStatusCmd)
	reflectionsCmd.AddCommand(reflectionsStopCmd)

	def := reflections.DefaultConfig()
	reflectionsServeCmd.Flags().StringVar(&reflectionsHost, "host", def.Host, "Host to bind")
	reflectionsServeCmd.Flags().IntVarP(&reflectionsPort, "port", "p", def.Port, "Port to listen on")
	reflectionsServeCmd.Flags().StringVar(&reflectionsFile, "file", "", "Reflections file (default <app dir>/backend/reflections.json)")
}

func runReflectionsServe(cmd *cobra.Command, _ []string) error {
	registry := serverinfo.Default()
	if info := registry.Running(serverinfo.Reflections); info != nil {
		return fmt.Errorf("reflections API already running at %s (PID %d)", info.URL(), info.PID)
	}

	path := reflectionsFile
	if path == "" {
		path = reflectionsPath()
	}

	ctx, cancel := withSignals(cmd.Context())
	defer cancel()

	store := reflections.NewFileStore(path)
	server := reflections.NewServer(reflections.Config{Host: reflectionsHost, Port: reflectionsPort}, store, nil)

	addr, err := server.Listen()
	if err != nil {
		return err
	}

	if err := registry.Write(serverinfo.Reflections, addr.String(), addr.(*net.TCPAddr).Port); err != nil {
		return err
	}
	defer registry.Remove(serverinfo.Reflections)

	_, _ = fmt.Fprintf(os.Stdout, "Reflections API on http://%s/api/reflections (file %s)\n", addr, store.Path())
	_, _ = fmt.Fprintln(os.Stdout, "Press Ctrl+C to stop")

	return server.Serve(ctx)
}
