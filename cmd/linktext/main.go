package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linktext"
	"github.com/fwojciec/linktext/gemini"
	"github.com/fwojciec/linktext/goquery"
	lthttp "github.com/fwojciec/linktext/http"
	"github.com/fwojciec/linktext/openai"
	"github.com/fwojciec/linktext/rod"
	"github.com/fwojciec/linktext/scrape"
	ltslog "github.com/fwojciec/linktext/slog"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin supplies links to the scrape command when none are given.
	Stdin io.Reader

	// Services for end-to-end testing. When set they replace the wired
	// implementations.
	Scraper  linktext.Scraper
	Searcher linktext.Searcher
	Asker    linktext.Asker
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("linktext"),
		kong.Description("Fetch web pages and turn them into one clean text document"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLLoader),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'linktext --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	command := kongCtx.Command()

	logger := newLogger(stderr, cli.Verbose, cli.LogFormat)
	deps.Logger = logger

	deps.Scraper = m.Scraper
	if deps.Scraper == nil {
		var progress scrape.ProgressFunc
		if cli.Scrape.Progress {
			progress = progressPrinter(stderr)
		}
		deps.Scraper = ltslog.NewLoggingScraper(newAggregator(cli.Pipeline, logger, progress), logger)
	}

	deps.Searcher = m.Searcher
	if deps.Searcher == nil {
		svc := lthttp.NewSearchService(nil, cli.Google.GoogleAPIKey, cli.Google.SearchEngineID)
		deps.Searcher = ltslog.NewLoggingSearcher(svc, logger)
	}

	deps.Asker = m.Asker
	if deps.Asker == nil {
		asker, err := newAsker(ctx, cli.LLM)
		switch {
		case err != nil && strings.HasPrefix(command, "ask"):
			fmt.Fprintln(stderr, askerHint(cli.LLM.LLMProvider))
			return err
		case err != nil:
			logger.Warn("ask disabled", "provider", cli.LLM.LLMProvider, "err", linktext.ErrorMessage(err))
		default:
			deps.Asker = ltslog.NewLoggingAsker(asker, logger)
		}
	}

	return kongCtx.Run(deps)
}

// newAggregator wires the scrape pipeline. Every invocation opens its own
// session; the browser is only launched when a page needs rendering.
func newAggregator(p PipelineFlags, logger *slog.Logger, progress scrape.ProgressFunc) *scrape.Aggregator {
	limiter := scrape.NewDomainLimiter(p.RateLimit)
	detector := newDetector(p)

	return &scrape.Aggregator{
		Open: func(context.Context) (*scrape.Session, error) {
			fetcher := lthttp.NewFetcher(
				lthttp.WithTimeout(p.FetchTimeout),
				lthttp.WithUserAgent(p.UserAgent),
			)
			s := &scrape.Session{
				Fetcher:       ltslog.NewLoggingFetcher(fetcher, logger),
				Detector:      detector,
				Limiter:       limiter,
				FetchTimeout:  p.FetchTimeout,
				RenderTimeout: p.RenderTimeout,
			}
			if !p.NoRender {
				renderer := rod.NewRenderer(
					rod.WithRenderTimeout(p.RenderTimeout),
					rod.WithBrowserManager(rod.NewBrowserManager(rod.WithMaxPages(p.MaxPages))),
				)
				s.Renderer = ltslog.NewLoggingRenderer(renderer, logger)
			}
			return s, nil
		},
		Extractor:     goquery.NewExtractor(goquery.WithMinFragmentLength(p.MinFragmentLength)),
		MaxLength:     p.MaxLength,
		Concurrency:   p.Concurrency,
		RenderOnEmpty: p.RenderOnEmpty,
		Progress:      progress,
	}
}

// newDetector selects the render detector. The keyword heuristic is the
// default; markup inspection catches script-driven pages without the keywords.
func newDetector(p PipelineFlags) linktext.RenderDetector {
	keyword := scrape.NewKeywordDetector(p.RenderKeywords...)
	switch p.RenderDetect {
	case "markup":
		return goquery.NewShellDetector()
	case "any":
		return scrape.AnyDetector{keyword, goquery.NewShellDetector()}
	default:
		return keyword
	}
}

// newAsker builds the language model client for the configured provider.
// Returns EUNAVAILABLE when the provider's API key is missing.
func newAsker(ctx context.Context, f LLMFlags) (linktext.Asker, error) {
	switch f.LLMProvider {
	case "gemini":
		if f.GeminiAPIKey == "" {
			return nil, linktext.Errorf(linktext.EUNAVAILABLE, "GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  f.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewAsker(client, f.LLMModel), nil
	default:
		if f.GroqAPIKey == "" {
			return nil, linktext.Errorf(linktext.EUNAVAILABLE, "GROQ_API_KEY not set")
		}
		return openai.NewAsker(openai.NewGroqClient(f.GroqAPIKey, ""), f.LLMModel), nil
	}
}

func askerHint(provider string) string {
	if provider == "gemini" {
		return "Hint: get a Gemini API key at https://aistudio.google.com/apikey"
	}
	return "Hint: get a Groq API key at https://console.groq.com/keys"
}

// progressPrinter reports each completed URL on w.
func progressPrinter(w io.Writer) scrape.ProgressFunc {
	return func(e scrape.ProgressEvent) {
		status := "ok"
		switch {
		case e.Error != nil:
			status = "failed: " + linktext.Reason(e.Error)
		case e.Rendered:
			status = "ok (rendered)"
		}
		fmt.Fprintf(w, "[%d/%d] %s %s\n", e.Completed, e.Total, e.URL, status)
	}
}
