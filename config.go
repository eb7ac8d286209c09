package mirror

import (
	"net/url"

	"github.com/fanyang01/mirror/extract"
	"github.com/fanyang01/mirror/urlx"
	"github.com/inconshreveable/log15"
)

// Config assembles a Crawler.
type Config struct {
	Option  *Option
	Context *Context
	// NewSeen creates the seen-set store owned by one crawl; it is
	// closed when the crawl finishes. Defaults to NewMemSet.
	NewSeen func() (StringSet, error)
	Logger  log15.Logger
	// NormalizeURL is applied to every URL entering the crawl.
	// Defaults to urlx.Normalize.
	NormalizeURL func(*url.URL) error
}

func initConfig(cfg *Config) *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Option == nil {
		cfg.Option = DefaultOption
	}
	if cfg.Context == nil {
		cfg.Context = &Context{}
	}
	if cfg.NewSeen == nil {
		cfg.NewSeen = func() (StringSet, error) { return NewMemSet(), nil }
	}
	if cfg.Logger == nil {
		cfg.Logger = log15.New()
		cfg.Logger.SetHandler(log15.DiscardHandler())
	}
	if cfg.NormalizeURL == nil {
		cfg.NormalizeURL = urlx.Normalize
	}
	if cfg.Context.Extractor == nil {
		cfg.Context.Extractor = &extract.Extractor{Normalize: cfg.NormalizeURL}
	}
	return cfg
}
