// Package accountapi provides the API to manage users and account lifecycles.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/ledgerkeep/accountapi/cmd/httpserver"
	"github.com/ledgerkeep/accountapi/internal/middleware"
	"github.com/ledgerkeep/accountapi/pkg/configpkg"
	"github.com/ledgerkeep/accountapi/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("ACCOUNT API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
