// Package access decides, per request, whether a page route may be served to
// the caller or must be redirected elsewhere. It knows nothing about HTTP
// frameworks: callers classify the path, derive a Subject from the session
// claims and act on the returned Decision.
package access

import (
	"net/url"
	"strings"
)

type State int

const (
	Unauthenticated State = iota
	NoProfile
	Pending
	RejectedOrBanned
	ActiveIncomplete
	ActiveComplete
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case NoProfile:
		return "no_profile"
	case Pending:
		return "pending"
	case RejectedOrBanned:
		return "rejected_or_banned"
	case ActiveIncomplete:
		return "active_incomplete"
	case ActiveComplete:
		return "active_complete"
	}
	return "unknown"
}

// Claims is the subset of session claims the gate reads.
type Claims struct {
	Status            string
	IsAdmin           bool
	IsProfileComplete bool
}

type Subject struct {
	State   State
	IsAdmin bool
	// Status keeps the raw value so rejected and banned users land on the
	// matching status page.
	Status string
}

// SubjectFrom maps claims to a Subject. nil claims (no or bad token) are
// Unauthenticated; an unknown status is treated as NoProfile.
func SubjectFrom(c *Claims) Subject {
	if c == nil {
		return Subject{State: Unauthenticated}
	}
	s := Subject{IsAdmin: c.IsAdmin, Status: c.Status}
	switch c.Status {
	case "pending":
		s.State = Pending
	case "rejected", "banned":
		s.State = RejectedOrBanned
	case "active":
		if c.IsProfileComplete {
			s.State = ActiveComplete
		} else {
			s.State = ActiveIncomplete
		}
	default:
		s.State = NoProfile
	}
	return s
}

type Kind int

const (
	Other Kind = iota
	API
	Admin
	Dashboard
	EditProfile
	StatusPage
	CompletionPage
)

const (
	LoginPath       = "/login"
	RegisterPath    = "/register"
	StatusPath      = "/status"
	CompletionPath  = "/complete-registration"
	DashboardPath   = "/dashboard"
	EditProfilePath = "/dashboard/edit-profile"
	AdminPath       = "/admin"
	APIPath         = "/api"
)

// Route is a classified request target. Target is the original path plus
// query, used for the login callback.
type Route struct {
	Kind   Kind
	Target string
}

// Protected routes require a session.
func (r Route) Protected() bool {
	return r.Kind == Admin || r.Kind == Dashboard || r.Kind == EditProfile
}

func (r Route) dashboard() bool {
	return r.Kind == Dashboard || r.Kind == EditProfile
}

func Classify(path, rawQuery string) Route {
	target := path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return Route{Kind: kindOf(path), Target: target}
}

func kindOf(path string) Kind {
	switch {
	case under(path, APIPath):
		return API
	case under(path, AdminPath):
		return Admin
	case under(path, EditProfilePath):
		return EditProfile
	case under(path, DashboardPath):
		return Dashboard
	case under(path, StatusPath):
		return StatusPage
	case under(path, CompletionPath):
		return CompletionPage
	}
	return Other
}

func under(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

var staticPrefixes = []string{
	"/_next/",
	"/static/",
	"/assets/",
	"/uploads/",
	"/images/",
}

var staticFiles = map[string]bool{
	"/favicon.ico": true,
	"/robots.txt":  true,
	"/sitemap.xml": true,
}

// IsStaticAsset reports paths that bypass the gate entirely.
func IsStaticAsset(path string) bool {
	if staticFiles[path] {
		return true
	}
	for _, p := range staticPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Decision is either Proceed (empty Redirect) or a redirect target.
type Decision struct {
	Redirect string
}

var Proceed = Decision{}

func RedirectTo(path string) Decision {
	return Decision{Redirect: path}
}

func (d Decision) Redirects() bool {
	return d.Redirect != ""
}

// Decide evaluates the rules for s.State in order; the first match wins.
func Decide(s Subject, r Route) Decision {
	switch s.State {
	case Unauthenticated:
		if r.Protected() {
			return RedirectTo(LoginPath + "?callbackUrl=" + url.QueryEscape(r.Target))
		}
		return Proceed

	case NoProfile:
		if r.dashboard() {
			return RedirectTo(RegisterPath)
		}
		if r.Kind == Admin && !s.IsAdmin {
			return RedirectTo(LoginPath)
		}
		return Proceed

	case Pending:
		if r.Kind == StatusPage || r.Kind == CompletionPage {
			return Proceed
		}
		if r.Protected() {
			return RedirectTo(StatusPath + "?state=pending")
		}
		return Proceed

	case RejectedOrBanned:
		if r.Kind == StatusPage || r.Kind == API {
			return Proceed
		}
		state := s.Status
		if state != "banned" {
			state = "rejected"
		}
		return RedirectTo(StatusPath + "?state=" + state)

	case ActiveIncomplete, ActiveComplete:
		if r.Kind == Admin && !s.IsAdmin {
			return RedirectTo(LoginPath)
		}
		if r.Kind == StatusPage {
			return RedirectTo(DashboardPath)
		}
		if s.State == ActiveIncomplete && r.Kind == Dashboard {
			return RedirectTo(EditProfilePath)
		}
		return Proceed
	}
	return Proceed
}
