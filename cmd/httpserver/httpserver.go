// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ledgerkeep/accountapi/internal/accountdelivery"
	"github.com/ledgerkeep/accountapi/internal/accountnumber"
	"github.com/ledgerkeep/accountapi/internal/accountrepo"
	"github.com/ledgerkeep/accountapi/internal/accountservice"
	"github.com/ledgerkeep/accountapi/internal/middleware"
	"github.com/ledgerkeep/accountapi/internal/userdelivery"
	"github.com/ledgerkeep/accountapi/internal/userrepo"
	"github.com/ledgerkeep/accountapi/internal/userservice"
	"github.com/ledgerkeep/accountapi/pkg/configpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)

	numberGenerator := accountnumber.New(accountRepo)

	userService := userservice.New(userRepo)
	accountService := accountservice.New(accountRepo, userRepo, numberGenerator)

	userHandler := userdelivery.NewHandler(userService)
	accountHandler := accountdelivery.NewHandler(accountService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)

	engine.POST("/accounts", accountHandler.Open)
	engine.DELETE("/accounts", accountHandler.Close)
	engine.GET("/accounts/:user_id", accountHandler.List)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
