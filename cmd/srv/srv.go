package main

import (
	"net/http"

	"github.com/quizdrop/backend/config"
	"github.com/quizdrop/backend/internal/domain"
	"github.com/quizdrop/backend/internal/middleware"
	"github.com/quizdrop/backend/pkg/api/poap"
	"github.com/quizdrop/backend/pkg/logger"
	"github.com/quizdrop/backend/pkg/router"
)

type srv struct {
	configs *config.Configs
	logger  logger.Logger

	poapEndpoint poap.IEndpoint

	poapDomain domain.PoapDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(s.configs.LogLevel)
}

func (s *srv) loadEndpoint() {
	s.poapEndpoint = poap.New(s.configs.Poap)
}

func (s *srv) loadDomains() {
	s.poapDomain = domain.NewPoapDomain(s.poapEndpoint, s.configs.Poap)
}

func (s *srv) loadRouter() {
	s.router = router.New(*s.configs, s.logger)
	s.router.After(middleware.Logger())

	router.POST(s.router, "/mintPoap", s.poapDomain.Mint)
	router.GET(s.router, "/getEvent", s.poapDomain.GetEvent)
	router.GET(s.router, "/getToken", s.poapDomain.GetToken)
}
