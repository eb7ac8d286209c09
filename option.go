package mirror

// InfiniteRecursion disables the depth bound.
const InfiniteRecursion = -1

// Option holds the crawl policies. The zero value of each field means
// the corresponding option is off.
type Option struct {
	// MaxDepth bounds the recursion depth; the seed has depth 0.
	// InfiniteRecursion (or any negative value) removes the bound.
	MaxDepth int
	// PageRequisites lets inline resources exceed MaxDepth by up to
	// two levels: one for the requisites of a boundary page, another
	// for the framesets of those requisites.
	PageRequisites bool
	// RelativeOnly follows only links written as relative paths.
	RelativeOnly bool
	// HTTPSOnly refuses to follow non-HTTPS links.
	HTTPSOnly bool
	// FollowFTP follows FTP and FTPS links found in documents.
	FollowFTP bool
	// NoParent keeps the crawl inside the seed's directory subtree.
	NoParent bool
	// SpanHosts permits links that leave the parent's host.
	SpanHosts bool
	// UseRobots honors robots exclusion and meta nofollow.
	UseRobots bool
	// Spider reports visited URLs without keeping the files.
	Spider bool
	// DeleteAfter unlinks every downloaded file after processing.
	DeleteAfter bool

	// Quota stops the crawl once more than this many bytes were
	// downloaded.
	Quota int64
	// RejectedLog names a file receiving one row per rejected child.
	RejectedLog string
	// RobotsAgent is the user agent matched against robots.txt.
	RobotsAgent string
	// Locale is attached to diagnostic messages; it does not affect
	// crawl behavior.
	Locale string

	// Accept and Reject are suffix or glob rules on file names.
	Accept, Reject []string
	// IncludeDirs and ExcludeDirs are directory lists.
	IncludeDirs, ExcludeDirs []string
	// AcceptRegex accepts only URLs matching this regexp.
	AcceptRegex string
	// Domains and ExcludeDomains are host lists.
	Domains, ExcludeDomains []string
}

// DefaultOption mirrors the usual defaults of recursive retrieval:
// five levels deep, honoring robots exclusion.
var DefaultOption = &Option{
	MaxDepth:    5,
	UseRobots:   true,
	RobotsAgent: "mirror",
}

func (o *Option) infinite() bool { return o.MaxDepth < 0 }
