// cmd/prefetch.go - Prefetch command implementation
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tileblend/internal/batch"
	"tileblend/internal/logging"
	"tileblend/internal/view"
)

var prefetchOpts struct {
	lat     float64
	lon     float64
	zoom    float64
	endLat  float64
	endLon  float64
	endZoom float64
	frames  int
}

// prefetchCmd warms the tile cache for a camera move
var prefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Warm the tile cache for a linear camera move",
	Long: `Prefetch interpolates a camera move from a start view to an end view over
a number of frames and loads every tile any frame needs, using a worker
pool. Tiles already on disk are decoded from the cache rather than fetched,
so repeated runs only download what changed. Without end coordinates a
single view is prefetched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, pipe, err := setup()
		if err != nil {
			return err
		}

		start := view.View{
			Center: view.LatLonToWorld(prefetchOpts.lat, prefetchOpts.lon),
			Zoom:   prefetchOpts.zoom,
		}
		end := start
		if cmd.Flags().Changed("end-lat") || cmd.Flags().Changed("end-lon") || cmd.Flags().Changed("end-zoom") {
			end = view.View{
				Center: view.LatLonToWorld(prefetchOpts.endLat, prefetchOpts.endLon),
				Zoom:   prefetchOpts.endZoom,
			}
		}

		views := batch.Frames(start, end, prefetchOpts.frames)
		logging.L().Infof("prefetching %d frames with %d workers", len(views), cfg.Batch.Workers)

		began := time.Now()
		prefetcher := batch.NewPrefetcher(pipe, &cfg.Batch)
		if err := prefetcher.Prefetch(cmd.Context(), views); err != nil {
			return fmt.Errorf("prefetch finished with errors: %w", err)
		}

		logging.L().Infof("prefetched %d frames in %s", len(views), time.Since(began))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefetchCmd)

	prefetchCmd.Flags().Float64Var(&prefetchOpts.lat, "lat", 0, "start view latitude in degrees")
	prefetchCmd.Flags().Float64Var(&prefetchOpts.lon, "lon", 0, "start view longitude in degrees")
	prefetchCmd.Flags().Float64Var(&prefetchOpts.zoom, "zoom", 0, "start continuous zoom level")
	prefetchCmd.Flags().Float64Var(&prefetchOpts.endLat, "end-lat", 0, "end view latitude in degrees")
	prefetchCmd.Flags().Float64Var(&prefetchOpts.endLon, "end-lon", 0, "end view longitude in degrees")
	prefetchCmd.Flags().Float64Var(&prefetchOpts.endZoom, "end-zoom", 0, "end continuous zoom level")
	prefetchCmd.Flags().IntVar(&prefetchOpts.frames, "frames", 1, "number of interpolated frames, endpoints inclusive")

	for _, name := range []string{"lat", "lon", "zoom"} {
		if err := prefetchCmd.MarkFlagRequired(name); err != nil {
			fmt.Fprintln(os.Stderr, "prefetch:", err)
		}
	}
}
