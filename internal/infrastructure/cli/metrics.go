package cli

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ultrapreps/visionqa/internal/infrastructure/httpapi"
	"github.com/ultrapreps/visionqa/internal/infrastructure/wiring"
)

// startMetrics serves /metrics on metrics.addr for long-running commands that have no
// HTTP API of their own. It is a no-op when the address is unset.
func startMetrics(ctx context.Context, services *wiring.AppServices) {
	addr := services.Workspace.Config.Metrics.Addr
	if addr == "" {
		return
	}
	r := mux.NewRouter()
	r.Handle("/metrics", services.Metrics.Handler()).Methods(http.MethodGet)

	go func() {
		if err := httpapi.NewServer(addr, r, nil).Serve(ctx); err != nil {
			slog.Warn("metrics endpoint stopped", "addr", addr, "error", err)
		}
	}()
}
