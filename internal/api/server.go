// Package api exposes the profile analysis pipeline and run store over
// HTTP/JSON.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/terrain.report/internal/config"
	"github.com/banshee-data/terrain.report/internal/geom"
	"github.com/banshee-data/terrain.report/internal/httputil"
	"github.com/banshee-data/terrain.report/internal/profile"
	"github.com/banshee-data/terrain.report/internal/profiledb"
	"github.com/banshee-data/terrain.report/internal/security"
	"github.com/banshee-data/terrain.report/internal/version"
)

// ANSI escape codes for request log colouring.
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db       *profiledb.DB
	settings config.Settings
}

// NewServer builds an API server over the runs database. db may be nil, in
// which case analyze still works but nothing can be saved or listed.
func NewServer(db *profiledb.DB, settings config.Settings) *Server {
	return &Server{db: db, settings: settings}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the API routes, intended to be mounted under /api.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/version", s.showVersion)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/runs", s.listRuns)
	mux.HandleFunc("/runs/", s.handleRun)
	return mux
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}

// AnalyzeRequest is the analyze endpoint payload: a polyline, an optional
// buffer override, and the raw points inline.
type AnalyzeRequest struct {
	Line    []geom.Point       `json:"line"`
	BufferM *float64           `json:"buffer_m,omitempty"`
	Points  []profile.RawPoint `json:"points"`
	// Save stores the run and returns its ID.
	Save bool `json:"save,omitempty"`
}

// AnalyzeResponse carries the result plus extraction bookkeeping.
type AnalyzeResponse struct {
	RunID   string                  `json:"run_id,omitempty"`
	Summary profile.ExtractSummary  `json:"summary"`
	Result  *profile.AnalysisResult `json:"result"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	line, err := geom.NewProfileLine(req.Line)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	buffer := s.settings.BufferM
	if req.BufferM != nil {
		buffer = *req.BufferM
	}

	session, err := profile.NewSession(line, buffer)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	result, err := session.Run(profile.NewSliceSource(req.Points))
	if err != nil {
		if errors.Is(err, profile.ErrEmptyInput) {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.InternalServerError(w, err.Error())
		return
	}

	resp := AnalyzeResponse{Summary: session.Summary, Result: result}
	if req.Save {
		if s.db == nil {
			httputil.InternalServerError(w, "run store not configured")
			return
		}
		runID, err := s.db.SaveRun(line.Vertices(), buffer, session.Points, result)
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		resp.RunID = runID
	}

	httputil.WriteJSONOK(w, resp)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.InternalServerError(w, "run store not configured")
		return
	}

	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			httputil.BadRequest(w, "invalid limit")
			return
		}
		limit = v
	}

	runs, err := s.db.ListRuns(limit)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, runs)
}

// handleRun dispatches /runs/{id}, /runs/{id}/report and /runs/{id}/chart.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodDelete {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.InternalServerError(w, "run store not configured")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/runs/")
	parts := strings.SplitN(rest, "/", 2)
	runID := parts[0]
	if runID == "" {
		httputil.NotFound(w, "missing run id")
		return
	}

	if r.Method == http.MethodDelete {
		if len(parts) > 1 {
			httputil.NotFound(w, "unknown run resource")
			return
		}
		if err := s.db.DeleteRun(runID); err != nil {
			if errors.Is(err, profiledb.ErrRunNotFound) {
				httputil.NotFound(w, "run not found")
				return
			}
			httputil.InternalServerError(w, err.Error())
			return
		}
		httputil.WriteJSONOK(w, map[string]string{"deleted": runID})
		return
	}

	rec, err := s.db.GetRun(runID)
	if err != nil {
		if errors.Is(err, profiledb.ErrRunNotFound) {
			httputil.NotFound(w, "run not found")
			return
		}
		httputil.InternalServerError(w, err.Error())
		return
	}

	if len(parts) == 1 {
		httputil.WriteJSONOK(w, rec)
		return
	}

	switch parts[1] {
	case "report":
		name := security.SanitizeFilename("profile-" + rec.RunID)
		w.Header().Set("Content-Disposition", `inline; filename="`+name+`.txt"`)
		httputil.WriteText(w, profile.FormatReport(rec.Result))
	case "chart":
		s.renderRunChart(w, rec)
	default:
		httputil.NotFound(w, "unknown run resource")
	}
}
