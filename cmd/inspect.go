// cmd/inspect.go - Inspect command implementation
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tileblend/internal/logging"
	"tileblend/internal/view"
)

var inspectOpts struct {
	lat  float64
	lon  float64
	zoom float64
}

// inspectCmd loads one view and prints the layers it resolves to
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load one view and print its levels, layers and fade weights",
	Long: `Inspect resolves a single continuous view into its discrete zoom levels,
fetches and decodes the tiles it needs, and prints each level's fade weight
together with the styled layers its tiles contribute, in paint order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, pipe, err := setup()
		if err != nil {
			return err
		}

		v := view.View{
			Center: view.LatLonToWorld(inspectOpts.lat, inspectOpts.lon),
			Zoom:   inspectOpts.zoom,
		}

		logging.L().Infof("inspecting view (%.4f, %.4f) at zoom %.2f",
			inspectOpts.lat, inspectOpts.lon, inspectOpts.zoom)

		start := time.Now()
		if err := pipe.LoadView(v); err != nil {
			return fmt.Errorf("failed to load view: %w", err)
		}
		logging.L().Infof("view loaded in %s", time.Since(start))

		frame, err := pipe.FrameLayers(v)
		if err != nil {
			return fmt.Errorf("failed to assemble frame: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, level := range frame {
			fmt.Fprintf(out, "level %d (weight %.3f): %d layer draws\n",
				level.Level.Zoom, level.Level.Weight, len(level.Draws))
			for _, draw := range level.Draws {
				fmt.Fprintf(out, "  %-10s bucket %3d %-18s paths=%-4d areas=%-4d fill=%s\n",
					draw.Tile, draw.Layer.Bucket, draw.Layer.Source,
					len(draw.Layer.Paths), len(draw.Layer.Areas), draw.Layer.Style.Fill)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Float64Var(&inspectOpts.lat, "lat", 0, "view center latitude in degrees")
	inspectCmd.Flags().Float64Var(&inspectOpts.lon, "lon", 0, "view center longitude in degrees")
	inspectCmd.Flags().Float64Var(&inspectOpts.zoom, "zoom", 0, "continuous zoom level (fractional values blend two levels)")

	for _, name := range []string{"lat", "lon", "zoom"} {
		if err := inspectCmd.MarkFlagRequired(name); err != nil {
			fmt.Fprintln(os.Stderr, "inspect:", err)
		}
	}
}
