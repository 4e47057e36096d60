package bootstrap

import (
	"regexp"
)

const (
	// CookieName holds the legacy-homepage opt-out.
	CookieName = "i-wanna-go-back"
	// CookieLegacy asks for the legacy homepage once.
	CookieLegacy = "2"
	// CookieRedirected records that the one-time redirect happened.
	CookieRedirected = "-1"
	// CookieDays is the lifetime of the redirected marker.
	CookieDays = 1

	// DefaultHost is the site whose homepage is replaced.
	DefaultHost = "bilibili.com"
)

// Action is what the bootstrap does with a page load
type Action int

const (
	ActionNone Action = iota
	ActionRedirect
	ActionMount
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case ActionRedirect:
		return "redirect"
	case ActionMount:
		return "mount"
	default:
		return "none"
	}
}

// CookieWrite is a cookie the shell must set
type CookieWrite struct {
	Name  string
	Value string
	Days  int
}

// Decision is the outcome of Decide
type Decision struct {
	Action Action
	Cookie *CookieWrite
}

// Matcher recognizes homepage URLs of one host
type Matcher struct {
	host     string
	patterns []*regexp.Regexp
}

// NewMatcher builds the homepage patterns for host: the bare domain and the
// www subdomain, each either with an optional trailing slash or with an
// spm_id_from query.
func NewMatcher(host string) *Matcher {
	if host == "" {
		host = DefaultHost
	}
	h := regexp.QuoteMeta(host)
	return &Matcher{
		host: host,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`^https?://` + h + `/?$`),
			regexp.MustCompile(`^https?://www\.` + h + `/?$`),
			regexp.MustCompile(`^https?://` + h + `/\?spm_id_from=.*$`),
			regexp.MustCompile(`^https?://www\.` + h + `/\?spm_id_from=.*$`),
		},
	}
}

// Host returns the matched host
func (m *Matcher) Host() string {
	return m.host
}

// IsHomePage reports whether url is one of the homepage forms
func (m *Matcher) IsHomePage(url string) bool {
	for _, p := range m.patterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}

// Decide maps the page URL and the current cookie value to an action. A
// redirect never mounts: the reload will run the bootstrap again.
func (m *Matcher) Decide(url, cookieValue string) Decision {
	if !m.IsHomePage(url) {
		return Decision{Action: ActionNone}
	}
	if cookieValue == CookieLegacy {
		return Decision{
			Action: ActionRedirect,
			Cookie: &CookieWrite{Name: CookieName, Value: CookieRedirected, Days: CookieDays},
		}
	}
	return Decision{Action: ActionMount}
}

var defaultMatcher = NewMatcher(DefaultHost)

// Decide uses the default host.
func Decide(url, cookieValue string) Decision {
	return defaultMatcher.Decide(url, cookieValue)
}
