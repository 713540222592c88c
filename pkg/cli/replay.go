package cli

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/localmock/localmock/pkg/cli/internal/output"
	"github.com/localmock/localmock/pkg/engine"
	"github.com/localmock/localmock/pkg/logging"
	"github.com/localmock/localmock/pkg/recording"
)

// Defaults shared by record and replay.
const (
	DefaultRecordingsFile = "recordings.json"
	DefaultProxyPort      = 8001
)

type replayFlags struct {
	file string
	host string
	port int
}

type recordFlags struct {
	target string
	file   string
	host   string
	port   int
}

var (
	replayFlagVals replayFlags
	recordFlagVals recordFlags
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Serve previously recorded responses",
	Long: `Serve the responses in a recordings file. A request is answered with the first
recording whose method and path match exactly; anything else gets 404.`,
	Example: `  localmock replay --file recordings.json --port 8001`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &replayFlagVals
		log, closeLog, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		recs, err := recording.Load(f.file)
		if errors.Is(err, recording.ErrFileNotFound) {
			output.Warn(stdout(cmd), "recordings file %s not found, every request will get 404", f.file)
		} else if err != nil {
			return err
		}

		replayer := recording.NewReplayer(recs, logging.Component(log, "replay"))
		srv := engine.NewServer(net.JoinHostPort(f.host, strconv.Itoa(f.port)), replayer,
			engine.WithServerLogger(logging.Component(log, "server")))
		if err := srv.Start(); err != nil {
			return err
		}
		fmt.Fprintf(stdout(cmd), "Replay server running on http://%s (%d recordings)\n", displayAddr(srv.Addr()), replayer.Len())
		return waitAndShutdown(cmd, srv, nil)
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Proxy a real API and record its responses",
	Long: `Forward every request to --target and record each response. The recordings
are written to --file when the proxy shuts down.`,
	Example: `  localmock record --target https://api.example.com --port 8001`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &recordFlagVals
		target, err := url.Parse(f.target)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return fmt.Errorf("invalid target URL %q", f.target)
		}

		log, closeLog, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		recorder := recording.NewRecorder(target, logging.Component(log, "record"))
		srv := engine.NewServer(net.JoinHostPort(f.host, strconv.Itoa(f.port)), recorder,
			engine.WithServerLogger(logging.Component(log, "server")))
		if err := srv.Start(); err != nil {
			return err
		}
		fmt.Fprintf(stdout(cmd), "Recording proxy running on http://%s -> %s\n", displayAddr(srv.Addr()), target)

		return waitAndShutdown(cmd, srv, func() error {
			if err := recorder.Save(f.file); err != nil {
				return err
			}
			output.Success(stdout(cmd), "Saved %d recordings to %s", len(recorder.Recordings()), f.file)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(recordCmd)

	rp := &replayFlagVals
	replayCmd.Flags().StringVarP(&rp.file, "file", "f", DefaultRecordingsFile, "Recordings file")
	replayCmd.Flags().StringVar(&rp.host, "host", "", "Interface to listen on (default all)")
	replayCmd.Flags().IntVarP(&rp.port, "port", "p", DefaultProxyPort, "Replay server port")

	rc := &recordFlagVals
	recordCmd.Flags().StringVarP(&rc.target, "target", "t", "", "Base URL of the API to record (required)")
	recordCmd.Flags().StringVarP(&rc.file, "file", "f", DefaultRecordingsFile, "Recordings file")
	recordCmd.Flags().StringVar(&rc.host, "host", "", "Interface to listen on (default all)")
	recordCmd.Flags().IntVarP(&rc.port, "port", "p", DefaultProxyPort, "Recording proxy port")
	_ = recordCmd.MarkFlagRequired("target")
}
