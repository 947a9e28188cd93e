package server

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/ztguard/ztguard/pkg/config"
	"github.com/ztguard/ztguard/pkg/enforce"
	"github.com/ztguard/ztguard/pkg/lint"
	"github.com/ztguard/ztguard/pkg/metrics"
	"github.com/ztguard/ztguard/pkg/server/middleware"
	"github.com/ztguard/ztguard/pkg/server/store"
	gormstore "github.com/ztguard/ztguard/pkg/server/store/gorm"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.ZTGuardConfig

	Linter   *lint.Linter
	Enforcer *enforce.Enforcer
	Registry *metrics.Registry

	FindingsStore  store.FindingsStore
	DecisionsStore store.DecisionsStore
	HealthStore    store.HealthStore

	JWTMiddleware *middleware.JWTAuthenticator

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	cfg *config.ZTGuardConfig,
	linter *lint.Linter,
	enforcer *enforce.Enforcer,
	jwtAuth *middleware.JWTAuthenticator,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.ListenAddress,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:         router,
		DB:             db,
		Config:         cfg,
		Linter:         linter,
		Enforcer:       enforcer,
		Registry:       metrics.Default,
		FindingsStore:  gormstore.NewFindingsStore(db),
		DecisionsStore: gormstore.NewDecisionsStore(db),
		HealthStore:    gormstore.NewHealthStore(db),
		JWTMiddleware:  jwtAuth,
		srv:            srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an existing listener. Used by tests that need
// to bind the port themselves.
func (s *Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}
