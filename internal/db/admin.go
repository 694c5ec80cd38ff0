package db

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"

	"github.com/banshee-data/colour.transfer/internal/httputil"
)

// AttachAdminRoutes mounts the debug pages on mux: a live SQL console over
// the run database and a JSON listing of runs.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("failed to create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://"+db.path, db.DB, &tailsql.DBOptions{
		Label: "Run history",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())
	debug.Handle("runs", "Recent adaptation runs (JSON, ?limit=N or ?id=RUN)", db.RunsHandler())
	return nil
}

// RunsHandler serves recent runs as JSON, or a single run when an id query
// parameter is given.
func (db *DB) RunsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		if id := r.URL.Query().Get("id"); id != "" {
			run, err := db.RunByID(id)
			if errors.Is(err, ErrRunNotFound) {
				httputil.NotFound(w, err.Error())
				return
			}
			if err != nil {
				httputil.InternalServerError(w, err.Error())
				return
			}
			httputil.WriteJSONOK(w, run)
			return
		}

		limit := 20
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				httputil.BadRequest(w, fmt.Sprintf("invalid limit %q", s))
				return
			}
			limit = n
		}
		runs, err := db.RecentRuns(limit)
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		if runs == nil {
			runs = []Run{}
		}
		httputil.WriteJSONOK(w, runs)
	})
}
