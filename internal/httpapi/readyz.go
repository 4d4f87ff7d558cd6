package httpapi

import (
	"context"
	"net/http"
	"time"
)

// Pinger is anything that can prove the task store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler reports 200 {"status":"ready"} while store answers a ping
// within a second, and 503 {"message":"store unavailable"} otherwise.
func ReadyzHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
