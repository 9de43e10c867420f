package main

import (
	"fmt"

	lthttp "github.com/fwojciec/linktext/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := lthttp.NewServer()
	s.Addr = c.Addr
	s.CORSOrigins = c.CORSOrigin
	s.Logger = deps.Logger
	s.ScrapeService = deps.Scraper
	s.SearchService = deps.Searcher
	s.AskService = deps.Asker

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-deps.Ctx.Done()

	return s.Close()
}
