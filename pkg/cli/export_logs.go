package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/localmock/localmock/pkg/cli/internal/output"
	"github.com/localmock/localmock/pkg/engine"
)

// exportTimeout bounds the request to a running server.
const exportTimeout = 10 * time.Second

type exportFlags struct {
	host   string
	port   int
	output string
}

var exportFlagVals exportFlags

var exportLogsCmd = &cobra.Command{
	Use:   "export-logs",
	Short: "Export the request log of a running server",
	Long: `Fetch GET /__logs from a running server and write the entries to a JSON file.

Without --output the file is logs/exported_logs_<timestamp>.json.`,
	Example: `  localmock export-logs
  localmock export-logs --port 3000 --output requests.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExportLogs(cmd, &exportFlagVals, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(exportLogsCmd)

	f := &exportFlagVals
	exportLogsCmd.Flags().StringVar(&f.host, "host", "localhost", "Server host")
	exportLogsCmd.Flags().IntVarP(&f.port, "port", "p", 8000, "Server port")
	exportLogsCmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file")
}

type logsPayload struct {
	Logs  []json.RawMessage `json:"logs"`
	Count int               `json:"count"`
}

func runExportLogs(cmd *cobra.Command, f *exportFlags, now time.Time) error {
	url := "http://" + net.JoinHostPort(f.host, strconv.Itoa(f.port)) + engine.PathLogs

	ctx, cancel := context.WithTimeout(cmd.Context(), exportTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch logs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch logs: unexpected status %d", resp.StatusCode)
	}

	var payload logsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode logs: %w", err)
	}
	if payload.Logs == nil {
		payload.Logs = []json.RawMessage{}
	}

	path := f.output
	if path == "" {
		path = filepath.Join("logs", "exported_logs_"+now.Format("20060102_150405")+".json")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(payload.Logs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	output.Success(stdout(cmd), "Exported %d logs to %s", len(payload.Logs), path)
	return nil
}
