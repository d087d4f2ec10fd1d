package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/internal/infrastructure/httpapi"
	"github.com/ultrapreps/visionqa/internal/infrastructure/sse"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validation HTTP API",
	Long: `Serve exposes validation over HTTP:

  POST /v1/validate, /v1/herocard, /v1/mascot, /v1/batch, /v1/improve
  GET  /v1/reviews, POST /v1/reviews/reopen
  GET  /v1/events   server-sent validation events
  GET  /healthz, /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		router := httpapi.NewRouter(&httpapi.Container{
			Validation: services.Validation,
			Review:     services.Review,
			Metrics:    services.Metrics.Handler(),
			Events:     sse.NewSSEHandler(services.Workspace.Dispatcher),
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return httpapi.NewServer(serveAddr, router, nil).Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	RootCmd.AddCommand(serveCmd)
}
