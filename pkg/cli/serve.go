package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/localmock/localmock/pkg/chaos"
	"github.com/localmock/localmock/pkg/config"
	"github.com/localmock/localmock/pkg/engine"
	"github.com/localmock/localmock/pkg/logging"
	"github.com/localmock/localmock/pkg/requestlog"
	"github.com/localmock/localmock/pkg/stateful"
	"github.com/localmock/localmock/pkg/template"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

type serveFlags struct {
	configFile     string
	host           string
	port           int
	publicDir      string
	staticPatterns []string
	maxLogEntries  int
	readTimeout    int
	writeTimeout   int
	seed           uint64
}

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock server (foreground)",
	Long: `Start the mock server with the given configuration file.

The listen port comes from --port, then from the configuration's "port", then 8000.
POST /__reload re-reads the configuration without a restart; GET /__logs returns
the most recent requests.`,
	Example: `  # Start with config.json in the current directory
  localmock serve

  # Start with a YAML config on a custom port
  localmock serve --config mocks.yaml --port 3000

  # Serve a front-end from ./web as well
  localmock serve --public-dir web`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &serveFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := &serveFlagVals
	serveCmd.Flags().StringVarP(&f.configFile, "config", "c", "config.json", "Path to the configuration file (JSON or YAML)")
	serveCmd.Flags().StringVar(&f.host, "host", "", "Interface to listen on (default all)")
	serveCmd.Flags().IntVarP(&f.port, "port", "p", 0, "HTTP server port (overrides the configuration)")
	serveCmd.Flags().StringVar(&f.publicDir, "public-dir", "public", "Directory served for static paths (empty disables)")
	serveCmd.Flags().StringSliceVar(&f.staticPatterns, "static", engine.DefaultStaticPatterns, "Request path patterns served from --public-dir")
	serveCmd.Flags().IntVar(&f.maxLogEntries, "max-log-entries", requestlog.DefaultMaxEntries, "Maximum request log entries")
	serveCmd.Flags().IntVar(&f.readTimeout, "read-timeout", int(engine.DefaultReadTimeout/time.Second), "Read timeout in seconds")
	serveCmd.Flags().IntVar(&f.writeTimeout, "write-timeout", int(engine.DefaultWriteTimeout/time.Second), "Write timeout in seconds (0 = none; responses slower than this are cut off)")
	serveCmd.Flags().Uint64Var(&f.seed, "seed", 0, "Seed for random template values and failures (0 = random)")
}

func runServe(cmd *cobra.Command, f *serveFlags) error {
	log, closeLog, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	store := config.NewStore(config.WithLogger(logging.Component(log, "config")))
	store.Load(f.configFile)

	port := f.port
	if port == 0 {
		port = store.Port()
	}

	opts := []engine.HandlerOption{engine.WithLogger(logging.Component(log, "engine"))}
	if f.seed != 0 {
		opts = append(opts,
			engine.WithTemplateEngine(template.New(template.WithSeed(f.seed))),
			engine.WithSimulator(chaos.NewSimulator(chaos.WithSeed(f.seed))),
		)
	}
	if f.publicDir != "" {
		opts = append(opts, engine.WithStatic(engine.NewDirServer(f.publicDir), f.staticPatterns...))
	}

	handler := engine.NewHandler(store, stateful.NewWishlist(), requestlog.NewStore(f.maxLogEntries), opts...)
	srv := engine.NewServer(net.JoinHostPort(f.host, strconv.Itoa(port)), handler.HTTPHandler(),
		engine.WithServerLogger(logging.Component(log, "server")),
		engine.WithTimeouts(time.Duration(f.readTimeout)*time.Second, time.Duration(f.writeTimeout)*time.Second),
	)
	if err := srv.Start(); err != nil {
		return err
	}

	out := stdout(cmd)
	base := "http://" + displayAddr(srv.Addr())
	fmt.Fprintf(out, "Mock Server running on %s\n", base)
	fmt.Fprintf(out, "Config: %s\n", f.configFile)
	fmt.Fprintf(out, "Reload: POST %s%s\n", base, engine.PathReload)
	fmt.Fprintf(out, "Logs: GET %s%s\n", base, engine.PathLogs)

	return waitAndShutdown(cmd, srv, nil)
}

// waitAndShutdown blocks until SIGINT/SIGTERM or a serve failure, then
// stops srv. onStop runs after the server has stopped.
func waitAndShutdown(cmd *cobra.Command, srv *engine.Server, onStop func() error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-ctx.Done():
		fmt.Fprintln(stdout(cmd), "\nShutting down...")
	case err := <-srv.Done():
		serveErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	if onStop != nil {
		if err := onStop(); err != nil && serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}

// displayAddr rewrites a wildcard listen address to localhost.
func displayAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
