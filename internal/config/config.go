package config

// Config holds all CLI options for an mdsync run.
type Config struct {
	IndexURL    string
	OutputDir   string
	Check       bool // report freshness only, no writes
	Update      bool // download only new and updated pages
	DelayMS     int  // pause between page downloads
	HeadDelayMS int  // pause between freshness HEAD requests
	HTML        bool // treat fetched pages as HTML and convert to markdown
	Selector    string
	UserAgent   string
	Verbose     bool
}
