package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linktext"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Scraper  linktext.Scraper
	Searcher linktext.Searcher
	Asker    linktext.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    kong.ConfigFlag `help:"Load flag values from a YAML file." placeholder:"PATH"`
	Verbose   bool            `short:"v" env:"LINKTEXT_VERBOSE" help:"Enable debug logging"`
	LogFormat string          `name:"log-format" enum:"text,json" default:"text" env:"LINKTEXT_LOG_FORMAT" help:"Log format (text or json)"`

	Pipeline PipelineFlags `embed:""`
	LLM      LLMFlags      `embed:""`
	Google   SearchFlags   `embed:""`

	Serve  ServeCmd  `cmd:"" help:"Serve the JSON API"`
	Scrape ScrapeCmd `cmd:"" help:"Scrape URLs into one text document"`
	Search SearchCmd `cmd:"" help:"Search the web for links"`
	Ask    AskCmd    `cmd:"" help:"Ask a language model, optionally grounded on scraped pages"`
}

// PipelineFlags configure the scrape pipeline.
type PipelineFlags struct {
	FetchTimeout      time.Duration `default:"10s" env:"LINKTEXT_FETCH_TIMEOUT" help:"Static fetch timeout per URL"`
	RenderTimeout     time.Duration `default:"20s" env:"LINKTEXT_RENDER_TIMEOUT" help:"Render timeout per URL"`
	MinFragmentLength int           `default:"20" env:"LINKTEXT_MIN_FRAGMENT_LENGTH" help:"Fragments must be longer than this many characters"`
	MaxLength         int           `default:"100000" env:"LINKTEXT_MAX_LENGTH" help:"Maximum document length in characters (negative disables)"`
	Concurrency       int           `short:"c" default:"1" env:"LINKTEXT_CONCURRENCY" help:"URLs processed at once"`
	RenderOnEmpty     bool          `env:"LINKTEXT_RENDER_ON_EMPTY" help:"Render pages whose static HTML yields no text"`
	NoRender          bool          `env:"LINKTEXT_NO_RENDER" help:"Never start a browser"`
	RenderDetect      string        `name:"render-detect" enum:"keyword,markup,any" default:"keyword" env:"LINKTEXT_RENDER_DETECT" help:"How pages are flagged for rendering (keyword, markup or any)"`
	RenderKeywords    []string      `name:"render-keyword" default:"javascript,dynamic" env:"LINKTEXT_RENDER_KEYWORDS" help:"Keywords that flag a page for rendering (repeatable)"`
	RateLimit         float64       `default:"0" env:"LINKTEXT_RATE_LIMIT" help:"Requests per second per host (0 disables)"`
	UserAgent         string        `default:"linktext/1.0" env:"LINKTEXT_USER_AGENT" help:"User-Agent for static fetches"`
	MaxPages          int64         `default:"75" env:"LINKTEXT_MAX_PAGES" help:"Pages rendered before the browser is recycled"`
}

// LLMFlags select the language model behind the ask operation.
type LLMFlags struct {
	LLMProvider  string `name:"llm-provider" enum:"groq,gemini" default:"groq" env:"LINKTEXT_LLM_PROVIDER" help:"Language model provider (groq or gemini)"`
	LLMModel     string `name:"llm-model" env:"LINKTEXT_LLM_MODEL" help:"Model name (provider default when empty)"`
	GroqAPIKey   string `name:"groq-api-key" env:"GROQ_API_KEY" hidden:""`
	GeminiAPIKey string `name:"gemini-api-key" env:"GEMINI_API_KEY" hidden:""`
}

// SearchFlags hold the Google Custom Search credentials.
type SearchFlags struct {
	GoogleAPIKey   string `name:"google-api-key" env:"GOOGLE_API_KEY" hidden:""`
	SearchEngineID string `name:"search-engine-id" env:"GOOGLE_SEARCH_ENGINE_ID" hidden:""`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr       string   `default:":8000" env:"LINKTEXT_ADDR" help:"Listen address"`
	CORSOrigin []string `name:"cors-origin" default:"http://localhost:5173" env:"LINKTEXT_CORS_ORIGIN" help:"Allowed CORS origins (repeatable, * for any)"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	Links    []string `arg:"" optional:"" help:"URLs to scrape; read from stdin, one per line, when omitted"`
	Progress bool     `short:"p" help:"Report per-URL progress on stderr"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query  string `arg:"" help:"Search query"`
	Scrape bool   `short:"s" help:"Scrape the result links and print the document"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Prompt string   `arg:"" help:"Question for the language model"`
	URLs   []string `name:"url" short:"u" help:"Scrape URL and use its text as context (repeatable)"`
	Search bool     `short:"s" help:"Search the prompt and use the scraped results as context"`
}
