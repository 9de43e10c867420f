package main

import (
	"fmt"

	"github.com/fwojciec/linktext"
)

// Run executes the ask command. Context comes from the scraped --url pages,
// or from the search results when --search is set.
func (c *AskCmd) Run(deps *Dependencies) error {
	if deps.Asker == nil {
		return linktext.Errorf(linktext.EUNAVAILABLE, "language model not configured")
	}

	links := c.URLs
	if c.Search {
		found, err := deps.Searcher.Search(deps.Ctx, c.Prompt)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", linktext.ErrorMessage(err))
			return err
		}
		links = append(links, found...)
	}

	var content string
	if len(links) > 0 {
		doc, err := deps.Scraper.Scrape(deps.Ctx, links)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", linktext.ErrorMessage(err))
			return err
		}
		content = doc
	}

	answer, err := deps.Asker.Ask(deps.Ctx, c.Prompt, content)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linktext.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
