package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/contactform/internal/discovery"
	"github.com/muurk/contactform/internal/ui"
)

var scanTimeout time.Duration

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find contactform servers on the local network",
	Long: `Browse mDNS for servers started with 'contactform serve --advertise'
and print their addresses.`,
	Example: `  # Browse for the default five seconds
  contactform scan

  # Wait longer on a busy network
  contactform scan --timeout 15s`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for answers")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanTimeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", scanTimeout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Scanning for contactform servers", "contactform scan",
		ui.Detail{Key: "Service", Value: discovery.ServiceType},
		ui.Detail{Key: "Timeout", Value: scanTimeout.String()},
	)

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout
	instances, err := scanner.Scan(ctx)
	if err != nil {
		p.PrintError("Scan failed", err)
		return err
	}

	if len(instances) == 0 {
		p.PrintWarning("No servers found",
			ui.Detail{Key: "Hint", Value: "start one with 'contactform serve --advertise'"},
		)
		return nil
	}

	for _, inst := range instances {
		details := []ui.Detail{
			{Key: "Open", Value: inst.BaseURL()},
			{Key: "WebSocket", Value: inst.WebSocketURL()},
			{Key: "Host", Value: inst.Hostname},
			{Key: "TLS", Value: strconv.FormatBool(inst.TLS)},
		}
		if inst.Version != "" {
			details = append(details, ui.Detail{Key: "Version", Value: inst.Version})
		}
		p.PrintSuccess(inst.Name, details...)
	}
	return nil
}
