package main

import (
	"fmt"

	"github.com/fwojciec/linktext"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	links, err := deps.Searcher.Search(deps.Ctx, c.Query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linktext.ErrorMessage(err))
		return err
	}

	if !c.Scrape {
		if len(links) == 0 {
			fmt.Fprintln(deps.Stdout, "No results found.")
		}
		for _, link := range links {
			fmt.Fprintln(deps.Stdout, link)
		}
		return nil
	}

	doc, err := deps.Scraper.Scrape(deps.Ctx, links)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linktext.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, doc)
	return nil
}
