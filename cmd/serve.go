package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/inference-sim/schedsim/api"
)

var (
	serveAddr         string  // Listen address
	serveRate         float64 // Requests per second; 0 disables limiting
	serveBurst        int     // Burst size for the rate limiter
	serveMaxProcesses int     // Max processes per request
	serveMaxHorizon   int64   // Max horizon per request
)

// serveCmd exposes the engine over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations over HTTP",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var limiter *rate.Limiter
		if serveRate > 0 {
			limiter = rate.NewLimiter(rate.Limit(serveRate), serveBurst)
		}
		h := api.NewSchedulerHandler(api.Limits{MaxProcesses: serveMaxProcesses, MaxHorizon: serveMaxHorizon}, limiter)
		app := api.NewApp(h)
		logrus.Infof("Listening on %s", serveAddr)
		if err := app.Listen(serveAddr); err != nil {
			logrus.Fatalf("Server stopped: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":9095", "Listen address")
	serveCmd.Flags().Float64Var(&serveRate, "rate-limit", 20, "Allowed requests per second (0 disables limiting)")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 10, "Rate limiter burst size")
	serveCmd.Flags().IntVar(&serveMaxProcesses, "max-processes", 1000, "Max processes per request")
	serveCmd.Flags().Int64Var(&serveMaxHorizon, "max-horizon", 1_000_000, "Max horizon per request")

	rootCmd.AddCommand(serveCmd)
}
