package controller

import (
	"net/http"
	"net/http/pprof"
	"strings"
)

// Pprof returns a handler serving net/http/pprof below prefix, e.g.
// "/debug/pprof". Named profiles (heap, goroutine, ...) are served by the index.
func Pprof(prefix string) http.Handler {
	prefix = strings.TrimSuffix(prefix, "/")
	mux := http.NewServeMux()

	mux.HandleFunc(prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		// pprof.Index expects the profile name right after "/debug/pprof/"
		r2 := r.Clone(r.Context())
		r2.URL.Path = "/debug/pprof/" + strings.TrimPrefix(r.URL.Path, prefix+"/")
		pprof.Index(w, r2)
	})
	mux.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
	mux.HandleFunc(prefix+"/profile", pprof.Profile)
	mux.HandleFunc(prefix+"/symbol", pprof.Symbol)
	mux.HandleFunc(prefix+"/trace", pprof.Trace)

	return mux
}
