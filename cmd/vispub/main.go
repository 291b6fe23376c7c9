// vispub publishes a robot's joint state and per-frame visual markers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// CLI flags
var (
	configDir string
	maxFrames int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vispub",
	Short: "vispub - publish joint states and visual markers",
	Long: `vispub drives a robot model at a fixed rate, publishing its joint state
and a frame of visual markers (spheres, arrows, friction cones) each cycle.
Markers from one frame never outlive it.`,
	Version:      fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the publisher until interrupted",
	RunE:  runPublisher,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vispub %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory containing vispub.cfg.json")
	runCmd.Flags().IntVar(&maxFrames, "frames", 0, "stop after this many frames (0 runs until interrupted)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}
