package constants

// Server transports.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Research pipeline defaults.
const (
	DefaultResearchTool      = "web_search"
	DefaultMaxResults        = 2
	DefaultMinSummarizeChars = 100
	DefaultMaxInputChars     = 8000
	DefaultFallbackChars     = 500
	DefaultSummaryModel      = "gpt-4o-mini"
)

// Catalogue defaults.
const (
	DefaultCatalogueLimit = 30
)
