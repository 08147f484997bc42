package cmd

import (
	"log"
	"os"
	"strconv"

	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/simulation"
	"github.com/spf13/cobra"
)

// Environment variables that provide flag defaults.
const (
	envFrames             = "MEMSIM_FRAMES"
	envPolicy             = "MEMSIM_POLICY"
	envMemory             = "MEMSIM_MEMORY"
	envMonitorPort        = "MEMSIM_MONITOR_PORT"
	envClickHouseAddr     = "MEMSIM_CLICKHOUSE_ADDR"
	envClickHouseDB       = "MEMSIM_CLICKHOUSE_DB"
	envClickHouseUser     = "MEMSIM_CLICKHOUSE_USER"
	envClickHousePassword = "MEMSIM_CLICKHOUSE_PASSWORD"
)

// intFlag returns the flag value if it is set on the command line, otherwise
// the environment variable, otherwise the flag default.
func intFlag(cmd *cobra.Command, name, env string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		log.Fatalf("Error reading flag %s: %v", name, err)
	}

	if cmd.Flags().Changed(name) {
		return v
	}

	s, ok := os.LookupEnv(env)
	if !ok || s == "" {
		return v
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("Error: %s=%q is not an integer", env, s)
	}

	return n
}

func stringFlag(cmd *cobra.Command, name, env string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		log.Fatalf("Error reading flag %s: %v", name, err)
	}

	if cmd.Flags().Changed(name) || env == "" {
		return v
	}

	if s := os.Getenv(env); s != "" {
		return s
	}

	return v
}

func boolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		log.Fatalf("Error reading flag %s: %v", name, err)
	}

	return v
}

// addOutputFlags adds the flags that select where the events of a run go.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("record", "",
		"Record the events into <path>.sqlite3")
	cmd.Flags().String("clickhouse", "",
		"Record the events into the ClickHouse server at host:port")
	cmd.Flags().Bool("monitor", false,
		"Serve the state of the run over HTTP")
	cmd.Flags().Int("monitor-port", 0,
		"Port of the monitoring server, random if 0")
	cmd.Flags().Bool("open-browser", false,
		"Open the monitoring page in a browser")
	cmd.Flags().BoolP("verbose", "v", false,
		"Log every event to stderr")
}

// buildSimulation creates the simulation the output flags describe.
func buildSimulation(cmd *cobra.Command) *simulation.Simulation {
	b := simulation.MakeBuilder()

	if cmd.Flags().Changed("record") {
		b = b.WithRecording(stringFlag(cmd, "record", ""))
	}

	if addr := stringFlag(cmd, "clickhouse", envClickHouseAddr); addr != "" {
		b = b.WithClickHouse(datarecording.ClickHouseOptions{
			Addr:     addr,
			Database: os.Getenv(envClickHouseDB),
			Username: os.Getenv(envClickHouseUser),
			Password: os.Getenv(envClickHousePassword),
		})
	}

	if cmd.Flags().Lookup("csv") != nil && cmd.Flags().Changed("csv") {
		b = b.WithCSVTrace(stringFlag(cmd, "csv", ""))
	}

	if boolFlag(cmd, "monitor") {
		b = b.WithMonitoring()

		if port := intFlag(cmd, "monitor-port", envMonitorPort); port > 0 {
			b = b.WithMonitorPort(port)
		}

		if boolFlag(cmd, "open-browser") {
			b = b.WithBrowser()
		}
	}

	if boolFlag(cmd, "verbose") {
		b = b.WithLogOutput(os.Stderr)
	}

	return b.Build()
}

func terminate(s *simulation.Simulation) {
	err := s.Terminate()
	if err != nil {
		log.Fatalf("Error closing outputs: %v", err)
	}
}
