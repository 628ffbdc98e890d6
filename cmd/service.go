package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

var (
	serviceStart     bool
	serviceStop      bool
	serviceInstall   bool
	serviceUninstall bool
	serviceStatus    bool
	serviceRun       bool
	servicePort      int
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the journal web app as a system service",
	Long: `Install, uninstall, start, stop, or check the status of the journal web
app as a system service.

On Windows, this creates/manages a Windows Service.
On Linux/macOS, this creates/manages a systemd/launchd service.`,
	RunE: runService,
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.Flags().BoolVar(&serviceStart, "start", false, "Start the journal service")
	serviceCmd.Flags().BoolVar(&serviceStop, "stop", false, "Stop the journal service")
	serviceCmd.Flags().BoolVar(&serviceInstall, "install", false, "Install the journal web app as a system service")
	serviceCmd.Flags().BoolVar(&serviceUninstall, "uninstall", false, "Uninstall the journal system service")
	serviceCmd.Flags().BoolVar(&serviceStatus, "status", false, "Check journal service status")
	serviceCmd.Flags().BoolVar(&serviceRun, "run", false, "Run under the service manager (used by the installed service)")
	serviceCmd.Flags().IntVarP(&servicePort, "port", "p", 0, "Port for the web app (default from config)")

	_ = serviceCmd.Flags().MarkHidden("run")
}

// program implements service.Interface by running the web app in-process.
type program struct {
	port int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan error
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	p.cancel = cancel
	p.done = make(chan error, 1)
	p.mu.Unlock()

	go p.run(ctx)

	return nil
}

func (p *program) run(ctx context.Context) {
	webPort = p.port

	webCmd.SetContext(ctx)

	err := runWeb(webCmd, nil)
	if err != nil {
		_ = service.ConsoleLogger.Errorf("Journal web app exited with error: %v", err)
	}

	p.done <- err
}

func (p *program) Stop(s service.Service) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()

	return <-done
}

func runService(cmd *cobra.Command, args []string) error {
	// Count how many flags are set
	flagCount := 0

	for _, set := range []bool{serviceStart, serviceStop, serviceInstall, serviceUninstall, serviceStatus, serviceRun} {
		if set {
			flagCount++
		}
	}

	if flagCount == 0 {
		return errors.New("please specify one of: --start, --stop, --install, --uninstall, --status")
	}

	if flagCount > 1 {
		return errors.New("please specify only one operation at a time")
	}

	arguments := []string{"service", "--run"}
	if servicePort != 0 {
		arguments = append(arguments, "--port", fmt.Sprintf("%d", servicePort))
	}

	if configPath != "" {
		arguments = append(arguments, "--config", configPath)
	}

	// Setup service configuration
	svcConfig := &service.Config{
		Name:        "JournalWeb",
		DisplayName: "Learning Journal",
		Description: "Serves the learning journal web app and reflections API",
		Arguments:   arguments,
	}

	prg := &program{port: servicePort}

	s, err := service.New(prg, svcConfig)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	// Handle the requested operation
	switch {
	case serviceRun:
		return s.Run()
	case serviceInstall:
		return installService(s)
	case serviceUninstall:
		return uninstallService(s)
	case serviceStart:
		return startService(s)
	case serviceStop:
		return stopService(s)
	case serviceStatus:
		return statusService(s)
	}

	return nil
}

func installService(s service.Service) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("cannot locate the journal executable: %w", err)
	}

	fmt.Printf("Installing journal service...\n")
	fmt.Printf("Executable: %s\n", exe)

	if err := s.Install(); err != nil {
		return fmt.Errorf("failed to install service: %w", err)
	}

	fmt.Println("✓ Service installed successfully!")
	fmt.Println("\nTo start the service, run:")
	fmt.Println("  journal service --start")
	fmt.Println("\nOr use your system's service manager:")
	fmt.Printf("  Windows: sc start JournalWeb\n")
	fmt.Printf("  Linux:   sudo systemctl start JournalWeb\n")

	return nil
}

func uninstallService(s service.Service) error {
	fmt.Println("Uninstalling journal service...")

	// Try to stop first
	_ = s.Stop()

	if err := s.Uninstall(); err != nil {
		return fmt.Errorf("failed to uninstall service: %w", err)
	}

	fmt.Println("✓ Service uninstalled successfully!")

	return nil
}

func startService(s service.Service) error {
	fmt.Println("Starting journal service...")

	if err := s.Start(); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	fmt.Println("✓ Service started successfully!")
	fmt.Println("Check it with: journal service --status")

	return nil
}

func stopService(s service.Service) error {
	fmt.Println("Stopping journal service...")

	if err := s.Stop(); err != nil {
		return fmt.Errorf("failed to stop service: %w", err)
	}

	fmt.Println("✓ Service stopped successfully!")

	return nil
}

func statusService(s service.Service) error {
	status, err := s.Status()
	if err != nil {
		return fmt.Errorf("failed to get service status: %w", err)
	}

	fmt.Printf("Service Status: ")

	switch status {
	case service.StatusRunning:
		fmt.Println("Running ✓")
	case service.StatusStopped:
		fmt.Println("Stopped")
	case service.StatusUnknown:
		fmt.Println("Unknown")
	default:
		fmt.Printf("%v\n", status)
	}

	return nil
}
