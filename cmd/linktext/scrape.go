package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fwojciec/linktext"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	links := c.Links
	if len(links) == 0 && deps.Stdin != nil {
		var err error
		if links, err = readLinks(deps); err != nil {
			return err
		}
	}

	doc, err := deps.Scraper.Scrape(deps.Ctx, links)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linktext.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, doc)
	return nil
}

// readLinks reads one URL per line from stdin, skipping blank lines and
// lines starting with '#'.
func readLinks(deps *Dependencies) ([]string, error) {
	var links []string
	sc := bufio.NewScanner(deps.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading links: %w", err)
	}
	return links, nil
}
