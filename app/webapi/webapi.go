// Package webapi provides a web API for the spam check service.
// Checks are available to guests (rate limited) and to authenticated users, the admin user can see stats,
// retrain the model and manage training samples.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/spam-check/app/storage"
	"github.com/umputun/spam-check/lib/model"
	"github.com/umputun/spam-check/lib/spamcheck"
)

//go:generate moq --out mocks/classifier.go --pkg mocks --with-resets --skip-ensure . Classifier
//go:generate moq --out mocks/history.go --pkg mocks --with-resets --skip-ensure . History
//go:generate moq --out mocks/samples.go --pkg mocks --with-resets --skip-ensure . Samples

// AdminUser is the name of the user allowed to access admin endpoints
const AdminUser = "admin"

// Server is a web API server.
type Server struct {
	Config
	checks     *spamcheck.LastChecks
	cache      cache.Cache[string, spamcheck.Response]
	guestLimit *limiter.Limiter
	logLock    sync.Mutex
}

// Config defines server parameters
type Config struct {
	Version      string            // version to show in /ping
	ListenAddr   string            // listen address
	Classifier   Classifier        // model manager
	History      History           // check history storage, optional
	Samples      Samples           // user's training samples storage, optional
	Users        map[string]string // user name -> password for basic auth
	GuestLimit   int               // max checks per guest ip per day, 0 disables guests
	HistoryLimit int               // max records returned by /history, default 100
	RecentSize   int               // size of in-memory list of recent checks, default 100
	CacheSize    int               // max cached check results, default 1000
	CacheTTL     time.Duration     // cached check results ttl, default 1h
	CheckLog     io.Writer         // json lines log of all checks, optional
	Dbg          bool              // debug mode
}

// Classifier is the trained model interface
type Classifier interface {
	Predict(ctx context.Context, text string) (model.Result, error)
	Example(wantSpam bool) string
	Train(ctx context.Context) error
	Info() model.Info
}

// History is a storage of completed checks
type History interface {
	Add(ctx context.Context, check spamcheck.Check) error
	Read(ctx context.Context, userID string, limit int) ([]spamcheck.Check, error)
	Stats(ctx context.Context) (*storage.HistoryStats, error)
}

// Samples is a storage of user's training samples
type Samples interface {
	Add(ctx context.Context, t storage.SampleType, message string) error
	Delete(ctx context.Context, t storage.SampleType, message string) error
	Stats(ctx context.Context) (*storage.SamplesStats, error)
}

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 100
	}
	if config.RecentSize <= 0 {
		config.RecentSize = 100
	}
	if config.CacheSize <= 0 {
		config.CacheSize = 1000
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = time.Hour
	}
	res := &Server{
		Config: config,
		checks: spamcheck.NewLastChecks(config.RecentSize),
		cache:  cache.NewCache[string, spamcheck.Response]().WithMaxKeys(config.CacheSize).WithTTL(config.CacheTTL),
	}
	if config.GuestLimit > 0 {
		// bucket of GuestLimit checks refilled over a day, idle buckets dropped after a day
		res.guestLimit = tollbooth.NewLimiter(float64(config.GuestLimit)/(24*60*60),
			&limiter.ExpirableOptions{DefaultExpirationTTL: 24 * time.Hour})
		res.guestLimit.SetBurst(config.GuestLimit)
		res.guestLimit.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
		res.guestLimit.SetMessage(`{"error":"too many requests"}`)
		res.guestLimit.SetMessageContentType("application/json")
	}
	return res
}

// Run starts server and accepts requests checking for spam messages.
func (s *Server) Run(ctx context.Context) error {
	if len(s.Users) > 0 {
		log.Printf("[INFO] basic auth enabled for %d users", len(s.Users))
	} else {
		log.Printf("[WARN] no users defined, only guest access is available")
	}
	if s.GuestLimit <= 0 {
		log.Printf("[INFO] guest access disabled")
	} else {
		log.Printf("[INFO] guest access enabled, %d checks per day per ip", s.GuestLimit)
	}

	srv := &http.Server{Addr: s.ListenAddr, Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout: 5 * time.Second, WriteTimeout: 30 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

// ResetCache drops cached check results, called after the model is retrained
func (s *Server) ResetCache() {
	s.cache.Purge()
}

func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()), rest.RealIP, rest.Throttle(1000))
	router.Use(rest.AppInfo("spam-check", "umputun", s.Version), rest.Ping)
	router.Use(rest.SizeLimit(64 * 1024)) // 64K max request size
	router.Use(s.callerMiddleware)

	router.HandleFunc("GET /example/spam", s.exampleHandler(true))
	router.HandleFunc("GET /example/ham", s.exampleHandler(false))
	router.With(s.guestLimitMiddleware).HandleFunc("POST /check", s.checkHandler)
	router.With(s.authRequiredMiddleware).HandleFunc("GET /history", s.historyHandler)

	router.Mount("/admin").Route(func(admin *routegroup.Bundle) {
		admin.Use(s.adminMiddleware)
		admin.HandleFunc("GET /stats", s.statsHandler)
		admin.HandleFunc("GET /recent", s.recentHandler)
		admin.HandleFunc("POST /train", s.trainHandler)
		admin.HandleFunc("POST /samples/{type}", s.addSampleHandler)
		admin.HandleFunc("DELETE /samples/{type}", s.deleteSampleHandler)
	})
	return router
}

// checkHandler handles POST /check request.
// It gets message text from request body and returns spam status, confidence and class probabilities.
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	req := spamcheck.Request{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		log.Printf("[WARN] can't decode request: %v", err)
		return
	}
	if strings.TrimSpace(req.Msg) == "" {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "message is required"})
		return
	}
	caller := CallerFromContext(r.Context())
	req.UserID = caller.ID // user id is never taken from the request body

	resp, err := s.check(r.Context(), req.Msg)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't check message", "details": err.Error()})
		log.Printf("[WARN] can't check message: %v", err)
		return
	}

	check := spamcheck.Check{Request: req, Response: resp, Timestamp: time.Now()}
	s.checks.Push(check)
	s.logCheck(check)
	if s.History != nil {
		if err := s.History.Add(r.Context(), check); err != nil {
			log.Printf("[WARN] can't save check to history: %v", err)
		}
	}
	if s.Dbg {
		log.Printf("[DEBUG] check: %s", check.String())
	}
	rest.RenderJSON(w, resp)
}

// check returns cached response if the same text was checked by the same model version
func (s *Server) check(ctx context.Context, msg string) (spamcheck.Response, error) {
	version := s.Classifier.Info().Version
	key := strconv.FormatInt(version, 10) + ":" + msg
	if version > 0 {
		if resp, ok := s.cache.Get(key); ok {
			return resp, nil
		}
	}

	res, err := s.Classifier.Predict(ctx, msg)
	if err != nil {
		return spamcheck.Response{}, err
	}
	resp := spamcheck.Response{Spam: res.Spam, Confidence: res.Confidence, Probabilities: res.Probabilities}
	if version > 0 {
		s.cache.Set(key, resp, 0)
	}
	return resp, nil
}

// exampleHandler handles GET /example/spam and /example/ham, returns a random seed sample
func (s *Server) exampleHandler(wantSpam bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		rest.RenderJSON(w, rest.JSON{"msg": s.Classifier.Example(wantSpam)})
	}
}

// historyHandler handles GET /history?limit=N, returns caller's checks, the newest first
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "history is not enabled"})
		return
	}
	limit := s.HistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			rest.RenderJSON(w, rest.JSON{"error": "invalid limit", "details": v})
			return
		}
		limit = min(n, s.HistoryLimit)
	}

	caller := CallerFromContext(r.Context())
	checks, err := s.History.Read(r.Context(), caller.ID, limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't read history", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"user": caller.ID, "checks": checks})
}

// statsHandler handles GET /admin/stats
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	res := rest.JSON{"model": s.Classifier.Info()}
	if s.History != nil {
		st, err := s.History.Stats(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			rest.RenderJSON(w, rest.JSON{"error": "can't get history stats", "details": err.Error()})
			return
		}
		res["checks"] = st
	}
	if s.Samples != nil {
		st, err := s.Samples.Stats(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			rest.RenderJSON(w, rest.JSON{"error": "can't get samples stats", "details": err.Error()})
			return
		}
		res["samples"] = st
	}
	rest.RenderJSON(w, res)
}

// recentHandler handles GET /admin/recent?limit=N, returns recent checks of all callers, the newest first
func (s *Server) recentHandler(w http.ResponseWriter, r *http.Request) {
	limit := s.checks.Size()
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	checks := s.checks.Last(limit)
	for i, j := 0, len(checks)-1; i < j; i, j = i+1, j-1 {
		checks[i], checks[j] = checks[j], checks[i]
	}
	rest.RenderJSON(w, checks)
}

// trainHandler handles POST /admin/train, retrains the model and drops cached results
func (s *Server) trainHandler(w http.ResponseWriter, r *http.Request) {
	err := s.Classifier.Train(r.Context())
	s.ResetCache() // new artifact may be published even if save failed
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't train model", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"trained": true, "model": s.Classifier.Info()})
}

// addSampleHandler handles POST /admin/samples/{type}, adds a sample and retrains the model
func (s *Server) addSampleHandler(w http.ResponseWriter, r *http.Request) {
	s.updateSamples(w, r, "added", func(ctx context.Context, t storage.SampleType, msg string) error {
		return s.Samples.Add(ctx, t, msg)
	})
}

// deleteSampleHandler handles DELETE /admin/samples/{type}, removes a sample and retrains the model
func (s *Server) deleteSampleHandler(w http.ResponseWriter, r *http.Request) {
	s.updateSamples(w, r, "deleted", func(ctx context.Context, t storage.SampleType, msg string) error {
		return s.Samples.Delete(ctx, t, msg)
	})
}

func (s *Server) updateSamples(w http.ResponseWriter, r *http.Request, action string,
	updFn func(ctx context.Context, t storage.SampleType, msg string) error) {
	if s.Samples == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "samples storage is not enabled"})
		return
	}
	sampleType := storage.SampleType(r.PathValue("type"))
	if err := sampleType.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "invalid sample type", "details": err.Error()})
		return
	}
	var req struct {
		Msg string `json:"msg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Msg == "" {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request, msg is required"})
		return
	}

	if err := updFn(r.Context(), sampleType, req.Msg); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't update samples", "details": err.Error()})
		return
	}
	err := s.Classifier.Train(r.Context())
	s.ResetCache()
	if err != nil {
		log.Printf("[WARN] can't retrain model after samples update: %v", err)
	}
	rest.RenderJSON(w, rest.JSON{action: true, "type": sampleType, "msg": req.Msg, "retrained": err == nil})
}

// logCheck writes the check as a json line to CheckLog
func (s *Server) logCheck(check spamcheck.Check) {
	if s.CheckLog == nil {
		return
	}
	data, err := json.Marshal(check)
	if err != nil {
		log.Printf("[WARN] can't marshal check: %v", err)
		return
	}
	s.logLock.Lock()
	defer s.logLock.Unlock()
	if _, err := s.CheckLog.Write(append(data, '\n')); err != nil {
		log.Printf("[WARN] can't write check log: %v", err)
	}
}
