package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ultrapreps/visionqa/pkg/application"
)

// Container holds the dependencies of the router.
type Container struct {
	Validation *application.ValidationService
	Review     *application.ReviewService
	Metrics    http.Handler // optional
	Events     http.Handler // optional
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	h := NewHandler(c.Validation, c.Review)

	r.Use(corsMiddleware)

	r.HandleFunc("/healthz", h.Health).Methods("GET")
	if c.Metrics != nil {
		r.Handle("/metrics", c.Metrics).Methods("GET")
	}

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/validate", h.Validate).Methods("POST", "OPTIONS")
	v1.HandleFunc("/herocard", h.HeroCard).Methods("POST", "OPTIONS")
	v1.HandleFunc("/mascot", h.Mascot).Methods("POST", "OPTIONS")
	v1.HandleFunc("/batch", h.Batch).Methods("POST", "OPTIONS")
	v1.HandleFunc("/improve", h.Improve).Methods("POST", "OPTIONS")

	if c.Review != nil {
		v1.HandleFunc("/reviews", h.ListReviews).Methods("GET")
		v1.HandleFunc("/reviews/reopen", h.ReopenReview).Methods("POST", "OPTIONS")
	}
	if c.Events != nil {
		v1.Handle("/events", c.Events).Methods("GET")
	}

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
