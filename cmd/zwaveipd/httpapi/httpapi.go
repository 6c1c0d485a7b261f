// Package httpapi exposes the daemon's debug surface: a JSON view of the
// live node table and Prometheus metrics, mounted on a gorilla/mux router
// and wrapped in gorilla/handlers request logging (§4.12 application
// facade, read-only).
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gozwave/zwaveip/app"
	"github.com/gozwave/zwaveip/clog"
	"github.com/gozwave/zwaveip/node"
)

// nodeSummary is the wire shape of one row in /nodes.
type nodeSummary struct {
	ID               byte            `json:"id"`
	Listening        bool            `json:"listening"`
	FLiRS            bool            `json:"flirs"`
	BasicDeviceClass byte            `json:"basicDeviceClass"`
	Failed           bool            `json:"failed"`
	Endpoints        []byte          `json:"endpoints,omitempty"`
	CommandClasses   []commandClass  `json:"commandClasses"`
}

type commandClass struct {
	ClassID    byte `json:"classId"`
	Interviewed bool `json:"interviewed"`
}

func summarize(id byte, n *node.Node) nodeSummary {
	s := nodeSummary{
		ID:               id,
		Listening:        n.Listening(),
		FLiRS:            n.FLiRS(),
		BasicDeviceClass: n.BasicDeviceClass(),
		Failed:           n.IsFailed(),
	}
	for ep := range n.Endpoints() {
		s.Endpoints = append(s.Endpoints, ep)
	}
	for _, inst := range n.SupportedClasses() {
		s.CommandClasses = append(s.CommandClasses, commandClass{
			ClassID:     inst.ID(),
			Interviewed: inst.Base().Interviewed(),
		})
	}
	return s
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// NewRouter builds the mux.Router serving /healthz, /nodes, /nodes/{id}
// and /metrics over a, wrapped in compression and panic-recovery
// middleware. It adds no CORS headers and no request logging; wrap the
// router in LoggingHandler for that.
func NewRouter(a *app.Application) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/nodes", func(w http.ResponseWriter, req *http.Request) {
		nodes := a.Nodes()
		out := make([]nodeSummary, 0, len(nodes))
		for id, n := range nodes {
			out = append(out, summarize(id, n))
		}
		writeJSON(w, out)
	}).Methods(http.MethodGet)

	r.HandleFunc("/nodes/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.Atoi(mux.Vars(req)["id"])
		if err != nil || id < 0 || id > 255 {
			http.Error(w, "invalid node id", http.StatusBadRequest)
			return
		}
		n, ok := a.Node(byte(id))
		if !ok {
			http.NotFound(w, req)
			return
		}
		writeJSON(w, summarize(byte(id), n))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Use(handlers.CompressHandler)
	r.Use(handlers.RecoveryHandler(handlers.PrintRecoveryStack(false)))
	return r
}

// LoggingHandler wraps r in a request logger writing through log: one
// debug line per request with its method, URI and status code (no
// latency).
func LoggingHandler(r http.Handler, log clog.Clog) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, r, func(_ io.Writer, params handlers.LogFormatterParams) {
		log.Debug("%s %s (%d)", params.Request.Method, params.URL.RequestURI(), params.StatusCode)
	})
}
