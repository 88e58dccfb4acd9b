package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ratiofeed/internal/emitter"
	"ratiofeed/internal/store"
)

// Server renders the latest snapshot and exposes the manual trigger.
type Server struct {
	store   store.Store
	emitter *emitter.Emitter
	httpSrv *http.Server
	router  *mux.Router
}

// New creates the HTTP server.
func New(addr string, st store.Store, em *emitter.Emitter) *Server {
	s := &Server{
		store:   st,
		emitter: em,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/latest", s.handleLatest).Methods(http.MethodGet)
	r.HandleFunc("/api/generate", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router = r

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	log.Printf("[INFO] http server listening on %s", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// latestResponse is the /api/latest payload. Snapshot is null when the
// store has no data row yet.
type latestResponse struct {
	Snapshot *snapshotJSON `json:"snapshot"`
	Status   statusJSON    `json:"status"`
}

type snapshotJSON struct {
	TimestampUTC       string `json:"timestamp_utc"`
	CurrentAssets      string `json:"current_assets"`
	CurrentLiabilities string `json:"current_liabilities"`
	Inventory          string `json:"inventory"`
	CurrentRatio       string `json:"current_ratio"`
	QuickRatio         string `json:"quick_ratio"`
}

type statusJSON struct {
	SessionID        string  `json:"session_id"`
	RemainingSeconds int     `json:"remaining_seconds"`
	Progress         float64 `json:"progress"`
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.ReadLatest(r.Context())
	if err != nil {
		log.Printf("[ERROR] read latest: %v", err)
		http.Error(w, "read latest: "+err.Error(), http.StatusBadGateway)
		return
	}

	st := s.emitter.Status()
	resp := latestResponse{
		Status: statusJSON{
			SessionID:        st.SessionID,
			RemainingSeconds: st.RemainingSeconds,
			Progress:         st.Progress,
		},
	}
	if snap != nil {
		resp.Snapshot = &snapshotJSON{
			TimestampUTC:       snap.Timestamp.Format(store.TimestampLayout),
			CurrentAssets:      snap.CurrentAssets.StringFixed(2),
			CurrentLiabilities: snap.CurrentLiabilities.StringFixed(2),
			Inventory:          snap.Inventory.StringFixed(2),
			CurrentRatio:       snap.CurrentRatio().StringFixed(2),
			QuickRatio:         snap.QuickRatio().StringFixed(2),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := s.emitter.GenerateNow(r.Context()); err != nil {
		log.Printf("[ERROR] manual generate: %v", err)
		http.Error(w, "generate: "+err.Error(), http.StatusBadGateway)
		return
	}
	// The "Generate now" button posts a form; send the browser back to
	// the page instead of JSON.
	if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "generated"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}
