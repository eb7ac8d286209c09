// Command mirror downloads a web subtree rooted at one or more seed
// URLs.
package main

import (
	"fmt"
	"os"

	"github.com/fanyang01/mirror"
	"github.com/fanyang01/mirror/cmd/mirror/task"
	"github.com/fanyang01/mirror/ratelimit"
	"github.com/inconshreveable/log15"

	flag "github.com/ogier/pflag"
)

var (
	taskFile = flag.StringP("task", "t", "", "task file in TOML format")
	dir      = flag.StringP("dir", "d", "mirror.out", "target directory")
	depth    = flag.IntP("level", "l", mirror.DefaultOption.MaxDepth, "recursion depth, negative for unbounded")
	verbose  = flag.BoolP("verbose", "v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	logger := log15.New()
	lvl := log15.LvlInfo
	if *verbose {
		lvl = log15.LvlDebug
	}
	logger.SetHandler(log15.LvlFilterHandler(lvl, log15.StderrHandler))

	tsk := &task.Task{Depth: *depth, UseRobots: true, Agent: mirror.DefaultOption.RobotsAgent}
	if *taskFile != "" {
		var err error
		if tsk, err = task.Read(*taskFile); err != nil {
			logger.Error("read task file", "path", *taskFile, "err", err)
			os.Exit(1)
		}
	}
	seeds := append(tsk.Seed, flag.Args()...)
	if len(seeds) == 0 {
		fmt.Fprintln(os.Stderr, "usage: mirror [flags] URL...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	fetcher := mirror.NewStdFetcher(*dir, logger)
	if d := tsk.Delay(); d > 0 {
		fetcher.Limit = ratelimit.Every(d)
	}
	cw, err := mirror.New(&mirror.Config{
		Option:  tsk.Option(),
		Context: &mirror.Context{Fetcher: fetcher},
		Logger:  logger,
	})
	if err != nil {
		logger.Error("configure crawler", "err", err)
		os.Exit(1)
	}

	code := 0
	for _, seed := range seeds {
		status, err := cw.Crawl(seed)
		if err != nil {
			logger.Error("crawl", "seed", seed, "err", err)
			code = 1
			continue
		}
		logger.Info("crawl finished", "seed", seed,
			"status", status.String(), "bytes", fetcher.Bytes())
		if status != mirror.RetrOK {
			code = 1
		}
	}
	os.Exit(code)
}
