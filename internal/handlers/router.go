package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/tropicaldog17/folio/internal/logger"
)

// NewRouter wires every API route onto a gorilla/mux router.
func NewRouter(holdings *HoldingHandler, contributions *ContributionHandler, log *zap.Logger) *mux.Router {
	log = logger.OrNop(log).Named("http")
	router := mux.NewRouter()
	router.Use(requestLogger(log))

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "folio-backend",
		})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/holdings", holdings.HandleHoldings).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/holdings/{id}", holdings.HandleHolding).Methods(http.MethodGet, http.MethodDelete)
	api.HandleFunc("/holdings/{id}/valuations", holdings.HandleValuation).Methods(http.MethodPost)
	api.HandleFunc("/holdings/{id}/quote", holdings.HandleQuote).Methods(http.MethodPost)
	api.HandleFunc("/holdings/{id}/recurring", holdings.HandleRecurring).Methods(http.MethodPut)

	api.HandleFunc("/holdings/{id}/contributions", contributions.HandleContribution).Methods(http.MethodPost)
	api.HandleFunc("/holdings/{id}/occurrences", contributions.HandleOccurrences).Methods(http.MethodGet)
	api.HandleFunc("/holdings/{id}/occurrences/{occurrence}/confirm", contributions.HandleConfirmOccurrence).Methods(http.MethodPost)
	api.HandleFunc("/holdings/{id}/occurrences/{occurrence}/dismiss", contributions.HandleDismissOccurrence).Methods(http.MethodPost)

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return router
}

// CORS wraps the whole router so preflight requests are answered before
// route matching.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
