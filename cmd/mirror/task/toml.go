// Package task reads crawl descriptions from TOML files.
package task

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fanyang01/mirror"
)

// Task is the on-disk description of a crawl.
type Task struct {
	Seed []string

	Depth          int // negative means unbounded
	PageRequisites bool
	RelativeOnly   bool
	HTTPSOnly      bool
	FollowFTP      bool
	NoParent       bool
	SpanHosts      bool
	UseRobots      bool
	Spider         bool
	DeleteAfter    bool

	Quota       int64
	RejectedLog string
	Agent       string
	Locale      string

	Accept, Reject           []string
	IncludeDirs, ExcludeDirs []string
	AcceptRegex              string
	Domains, ExcludeDomains  []string

	// Interval is the minimal delay between requests to one host,
	// e.g. "500ms" or "2s".
	Interval duration
}

// Read decodes a task file.
func Read(fpath string) (*Task, error) {
	t := &Task{
		Depth:     mirror.DefaultOption.MaxDepth,
		UseRobots: true,
		Agent:     mirror.DefaultOption.RobotsAgent,
	}
	if _, err := toml.DecodeFile(fpath, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Option converts the task into crawl options.
func (t *Task) Option() *mirror.Option {
	return &mirror.Option{
		MaxDepth:       t.Depth,
		PageRequisites: t.PageRequisites,
		RelativeOnly:   t.RelativeOnly,
		HTTPSOnly:      t.HTTPSOnly,
		FollowFTP:      t.FollowFTP,
		NoParent:       t.NoParent,
		SpanHosts:      t.SpanHosts,
		UseRobots:      t.UseRobots,
		Spider:         t.Spider,
		DeleteAfter:    t.DeleteAfter,
		Quota:          t.Quota,
		RejectedLog:    t.RejectedLog,
		RobotsAgent:    t.Agent,
		Locale:         t.Locale,
		Accept:         t.Accept,
		Reject:         t.Reject,
		IncludeDirs:    t.IncludeDirs,
		ExcludeDirs:    t.ExcludeDirs,
		AcceptRegex:    t.AcceptRegex,
		Domains:        t.Domains,
		ExcludeDomains: t.ExcludeDomains,
	}
}

// Delay returns the per-host fetch interval, zero when unset.
func (t *Task) Delay() time.Duration { return t.Interval.Duration }

type duration struct{ time.Duration }

func (d *duration) UnmarshalText(s []byte) error {
	if len(s) == 0 {
		d.Duration = 0
		return nil
	}
	var err error
	d.Duration, err = time.ParseDuration(string(s))
	return err
}
