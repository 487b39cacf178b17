package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "tally"
	DefaultKeyringUser = "api-token"
	DefaultAPIBaseURL  = "https://api.tally.app"
	DefaultConfigDir   = "~/.config/tally"
	CacheFileName      = "tally.db"
	Version            = "v0.3.1"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// RequestTimeout is the default per-request timeout for gateway calls
	RequestTimeout = 15 * time.Second

	// Session States
	StateToday SessionState = iota
	StateHabits
	StateInsights
	StateSettings
	StateDetail
	StateCreateHabit
	StateEditHabit
	StateConfirmArchive
	StateConfirmDelete
)

// NumMainTabs is the number of top-level tabs the TUI cycles through
const NumMainTabs = 4

// Route paths understood by the view resolver. Dynamic segments use the
// habit id, e.g. "/habits/42" and "/habits/42/edit".
const (
	RouteToday    = "/"
	RouteHabits   = "/habits"
	RouteCreate   = "/habits/create"
	RouteInsights = "/insights"
	RouteSettings = "/settings"
)
