// Package health provides the liveness and readiness probe handlers.
package health

import "net/http"

// Healthz answers 200 unconditionally: the process is up.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Readyz answers 200 once configuration has been loaded. The prediction
// engine is stateless, so a running process is a ready process.
func Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready\n"))
}
