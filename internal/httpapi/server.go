package httpapi

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"tasklist/internal/observability/logging"
	"tasklist/internal/task"
)

type Options struct {
	Logger         *log.Logger
	RequestTimeout time.Duration
	CORSOrigins    []string
}

type Server struct {
	service *task.Service
	logger  *log.Logger
	handler http.Handler
}

func NewServer(service *task.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}

	srv := &Server{
		service: service,
		logger:  opts.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", srv.handleHealth)
	mux.HandleFunc("GET /readyz", ReadyzHandler(service))

	mux.HandleFunc("GET /api/tasks", srv.handleListTasks)
	mux.HandleFunc("POST /api/tasks", srv.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", srv.handleGetTask)
	mux.HandleFunc("PUT /api/tasks/{id}", srv.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", srv.handleDeleteTask)

	srv.handler = CORS(opts.CORSOrigins)(
		WithRequestID(
			Logging(opts.Logger)(
				Timeout(opts.RequestTimeout)(jsonFallback(mux)),
			),
		),
	)
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// jsonFallback answers requests no route matches (404, or 405 when only the
// method is wrong) with the same {message} body as every other error.
func jsonFallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}
		sw := &discardWriter{ResponseWriter: w, status: http.StatusNotFound}
		h.ServeHTTP(sw, r)
		writeError(w, sw.status, http.StatusText(sw.status))
	})
}

// discardWriter keeps the status and headers (Allow) of the mux's default
// handlers and drops their text/plain body.
type discardWriter struct {
	http.ResponseWriter
	status int
}

func (w *discardWriter) WriteHeader(code int) { w.status = code }

func (w *discardWriter) Write(b []byte) (int, error) { return len(b), nil }
