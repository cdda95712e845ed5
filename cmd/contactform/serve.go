package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/discovery"
	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/server"
	"github.com/muurk/contactform/internal/ui"
	"github.com/muurk/contactform/internal/version"
)

// Serve command flags
var (
	serveHost      string
	servePort      int
	serveAdvertise bool
	serveCert      string
	serveKey       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the form to browsers",
	Long: `Start the HTTP server. Browsers load the form from / and talk to
a per-connection form session over a WebSocket at /ws. /healthz reports
status for probes.

With --advertise the server announces itself over mDNS so 'contactform
scan' can find it on the local network.`,
	Example: `  # Listen on the configured address (default 0.0.0.0:8080)
  contactform serve

  # Local only, announced over mDNS
  contactform serve --host 127.0.0.1 --port 9000 --advertise

  # HTTPS
  contactform serve --tls-cert cert.pem --tls-key key.pem`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
	serveCmd.Flags().BoolVar(&serveAdvertise, "advertise", false, "Announce the server over mDNS")
	serveCmd.Flags().StringVar(&serveCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&serveKey, "tls-key", "", "TLS private key file")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("host") {
		settings.Server.Host = serveHost
	}
	if flags.Changed("port") {
		settings.Server.Port = servePort
	}
	if flags.Changed("advertise") {
		settings.Server.Advertise = serveAdvertise
	}
	if flags.Changed("tls-cert") {
		settings.Server.TLSCert = serveCert
	}
	if flags.Changed("tls-key") {
		settings.Server.TLSKey = serveKey
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid server settings: %w", err)
	}

	kv, closeKV := openDrafts(settings)
	defer closeKV()

	srv, err := server.New(&server.Config{
		Host:             settings.Server.Host,
		Port:             settings.Server.Port,
		CertPath:         settings.Server.TLSCert,
		KeyPath:          settings.Server.TLSKey,
		KV:               kv,
		SubmitLatency:    settings.Submit.Latency,
		AutoSaveInterval: settings.Draft.AutoSaveInterval,
		Cooldown:         settings.Submit.Cooldown,
		CharBudget:       settings.Form.CharBudget,
		Theme:            form.ParseTheme(settings.UI.Theme),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tls := settings.Server.TLSCert != ""
	p := ui.NewPrinter(cmd.OutOrStdout())

	var adv *discovery.Advertiser
	defer func() { adv.Shutdown() }()

	return srv.Start(ctx, func(addr net.Addr) {
		scheme := "http"
		if tls {
			scheme = "https"
		}
		port := settings.Server.Port
		if tcp, ok := addr.(*net.TCPAddr); ok {
			port = tcp.Port
		}

		details := []ui.Detail{
			{Key: "Address", Value: fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(settings.Server.Host, strconv.Itoa(port)))},
			{Key: "Drafts", Value: draftSummary(kv != nil)},
		}

		if settings.Server.Advertise {
			a, err := discovery.Advertise("", port, version.Version, server.WebSocketPath, tls)
			if err != nil {
				logging.Warn("mDNS advertisement failed", zap.Error(err))
				details = append(details, ui.Detail{Key: "mDNS", Value: "failed: " + err.Error()})
			} else {
				adv = a
				details = append(details, ui.Detail{Key: "mDNS", Value: a.Name()})
			}
		}

		p.PrintHeader("Contact form server", "contactform serve", details...)
		p.Println("  Press Ctrl+C to stop.")
	})
}

func draftSummary(enabled bool) string {
	if !enabled {
		return "unavailable"
	}
	return settings.Draft.Backend
}
