// Command zwaveipd is the daemon entrypoint: it dials the Z/IP Gateway's
// control connection, builds the gateway/application/mailbox layers on
// top of it, and serves a debug HTTP surface until interrupted.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gozwave/zwaveip/app"
	"github.com/gozwave/zwaveip/clog"
	"github.com/gozwave/zwaveip/cmd/zwaveipd/httpapi"
	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/gateway"
	"github.com/gozwave/zwaveip/mailbox"
	"github.com/gozwave/zwaveip/transport"
)

var (
	configPath string
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "zwaveipd",
	Short: "Z/IP Gateway host daemon",
	Long: `zwaveipd dials a Z/IP Gateway's DTLS-PSK control connection, keeps
the node list and per-node command class state in sync, and serves a
debug HTTP API over the result.`,
	RunE: runDaemon,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the daemon version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("zwaveipd", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "/etc/zwaveipd/config.yaml", "Path to the daemon's YAML configuration")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	log := clog.NewLogger("zwaveipd")

	psk, err := cfg.PSK()
	if err != nil {
		return fmt.Errorf("decoding psk: %w", err)
	}
	identity, err := cfg.Identity()
	if err != nil {
		return fmt.Errorf("decoding identity: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mb *mailbox.Service
	tr, err := dialGateway(ctx, cfg.Gateway, psk, identity, func(msg frame.Message, sourceEP, destEP byte) {
		if mb != nil {
			mb.HandleMessage(msg)
		}
	})
	if err != nil {
		return fmt.Errorf("dialing gateway: %w", err)
	}

	gw := gateway.New(tr, psk, identity, prometheus.DefaultRegisterer)
	defer gw.Stop()

	if cfg.UnsolicitedPort != 0 {
		localIP := net.ParseIP(cfg.LocalIP)
		if localIP == nil {
			return fmt.Errorf("local_ip %q is not a valid IP, required when unsolicited_port is set", cfg.LocalIP)
		}
		if err := gw.SetupUnsolicitedConnection(ctx, localIP, cfg.UnsolicitedPort); err != nil {
			return fmt.Errorf("setting up unsolicited connection: %w", err)
		}
	}

	a := app.New(gw)

	mb = mailbox.New(tr, ipTo16(net.ParseIP(cfg.LocalIP)), uint16(cfg.UnsolicitedPort), func(queueHandle byte, entry []byte) {
		log.Debug("mailbox delivery for queue handle %d: %d bytes", queueHandle, len(entry))
	})
	if cfg.UnsolicitedPort != 0 {
		if err := mb.Configure(5 * time.Second); err != nil {
			log.Warn("mailbox configure: %v", err)
		} else {
			mb.StartHeartbeat()
			defer mb.Stop()
		}
	}

	if err := a.Startup(); err != nil {
		return fmt.Errorf("node list startup: %w", err)
	}
	log.Critical("zwaveipd %s: startup complete with %d nodes", version, len(a.Nodes()))

	var srv *http.Server
	if cfg.HTTPAddr != "" {
		router := httpapi.NewRouter(a)
		srv = &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      httpapi.LoggingHandler(router, log),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			log.Critical("zwaveipd: http debug surface listening on %s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("http server: %v", err)
			}
		}()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Critical("zwaveipd: shutting down")
	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return nil
}

// dialGateway opens the primary DTLS-PSK (or plain UDP, if psk is empty)
// control connection and wraps it in a Transport. The inbound callback is
// supplied before the Transport exists, so it is forwarded through a
// closure capturing tr by reference (the same pattern Gateway.ConnectToNode
// uses for per-node sub-connections).
func dialGateway(ctx context.Context, address string, psk, identity []byte, onMsg transport.MessageHandler) (*transport.Transport, error) {
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, strconv.Itoa(transport.ControlPort))
	}

	var tr *transport.Transport
	forward := func(b []byte, sender net.Addr) {
		if tr != nil {
			tr.HandleDatagram(b, sender)
		}
	}

	var conn transport.Conn
	var err error
	if len(psk) > 0 {
		conn, err = transport.DialDTLS(ctx, address, psk, identity, forward)
	} else {
		conn, err = transport.DialUDP(address, forward)
	}
	if err != nil {
		return nil, err
	}

	tr, err = transport.New(conn, transport.DefaultConfig(), onMsg)
	if err != nil {
		_ = conn.Stop()
		return nil, err
	}
	return tr, nil
}

func ipTo16(ip net.IP) [16]byte {
	var out [16]byte
	if ip16 := ip.To16(); ip16 != nil {
		copy(out[:], ip16)
	}
	return out
}
