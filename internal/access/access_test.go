package access

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectFrom(t *testing.T) {
	tests := []struct {
		name   string
		claims *Claims
		want   State
	}{
		{"no token", nil, Unauthenticated},
		{"empty status", &Claims{}, NoProfile},
		{"unknown status", &Claims{Status: "suspended"}, NoProfile},
		{"pending", &Claims{Status: "pending"}, Pending},
		{"rejected", &Claims{Status: "rejected"}, RejectedOrBanned},
		{"banned", &Claims{Status: "banned"}, RejectedOrBanned},
		{"active incomplete", &Claims{Status: "active"}, ActiveIncomplete},
		{"active complete", &Claims{Status: "active", IsProfileComplete: true}, ActiveComplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubjectFrom(tt.claims).State)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"/", Other},
		{"/login", Other},
		{"/api/posts", API},
		{"/api/admin/users", API},
		{"/admin", Admin},
		{"/admin/users", Admin},
		{"/administrator", Other},
		{"/dashboard", Dashboard},
		{"/dashboard/jobs", Dashboard},
		{"/dashboard/edit-profile", EditProfile},
		{"/status", StatusPage},
		{"/complete-registration", CompletionPage},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path, "").Kind)
		})
	}
}

func TestClassify_TargetKeepsQuery(t *testing.T) {
	r := Classify("/dashboard/jobs", "page=2")
	assert.Equal(t, "/dashboard/jobs?page=2", r.Target)
}

func TestIsStaticAsset(t *testing.T) {
	assert.True(t, IsStaticAsset("/_next/static/chunk.js"))
	assert.True(t, IsStaticAsset("/favicon.ico"))
	assert.True(t, IsStaticAsset("/uploads/a.png"))
	assert.False(t, IsStaticAsset("/dashboard"))
	assert.False(t, IsStaticAsset("/admin/static"))
}

func subject(status string, admin, complete bool) Subject {
	return SubjectFrom(&Claims{Status: status, IsAdmin: admin, IsProfileComplete: complete})
}

func TestDecide(t *testing.T) {
	anon := SubjectFrom(nil)
	noProfile := subject("", false, false)
	noProfileAdmin := subject("", true, false)
	pending := subject("pending", false, false)
	rejected := subject("rejected", false, false)
	banned := subject("banned", false, false)
	activeInc := subject("active", false, false)
	activeDone := subject("active", false, true)
	admin := subject("active", true, true)
	adminInc := subject("active", true, false)

	tests := []struct {
		name    string
		subject Subject
		path    string
		query   string
		want    string
	}{
		{"anon dashboard", anon, "/dashboard/jobs", "page=2", "/login?callbackUrl=%2Fdashboard%2Fjobs%3Fpage%3D2"},
		{"anon admin", anon, "/admin", "", "/login?callbackUrl=%2Fadmin"},
		{"anon public", anon, "/", "", ""},
		{"anon api", anon, "/api/posts", "", ""},
		{"anon status", anon, "/status", "", ""},

		{"no profile dashboard", noProfile, "/dashboard", "", "/register"},
		{"no profile edit profile", noProfile, "/dashboard/edit-profile", "", "/register"},
		{"no profile admin", noProfile, "/admin", "", "/login"},
		{"no profile admin flag", noProfileAdmin, "/admin", "", ""},
		{"no profile completion", noProfile, "/complete-registration", "", ""},
		{"no profile public", noProfile, "/jobs", "", ""},

		{"pending status", pending, "/status", "state=pending", ""},
		{"pending completion", pending, "/complete-registration", "", ""},
		{"pending dashboard", pending, "/dashboard", "", "/status?state=pending"},
		{"pending admin", pending, "/admin", "", "/status?state=pending"},
		{"pending public", pending, "/about", "", ""},
		{"pending api", pending, "/api/auth/session", "", ""},

		{"rejected status", rejected, "/status", "", ""},
		{"rejected api", rejected, "/api/auth/session", "", ""},
		{"rejected dashboard", rejected, "/dashboard", "", "/status?state=rejected"},
		{"rejected public", rejected, "/", "", "/status?state=rejected"},
		{"banned dashboard", banned, "/dashboard", "", "/status?state=banned"},
		{"banned login", banned, "/login", "", "/status?state=banned"},

		{"active non-admin admin route", activeDone, "/admin/users", "", "/login"},
		{"active incomplete non-admin admin route", activeInc, "/admin", "", "/login"},
		{"active status", activeDone, "/status", "", "/dashboard"},
		{"active incomplete dashboard", activeInc, "/dashboard", "", "/dashboard/edit-profile"},
		{"active incomplete dashboard sub", activeInc, "/dashboard/jobs", "", "/dashboard/edit-profile"},
		{"active incomplete edit profile", activeInc, "/dashboard/edit-profile", "", ""},
		{"active incomplete public", activeInc, "/jobs", "", ""},
		{"active complete dashboard", activeDone, "/dashboard", "", ""},
		{"admin admin route", admin, "/admin", "", ""},
		{"admin incomplete admin route", adminInc, "/admin", "", ""},
		{"admin incomplete dashboard", adminInc, "/dashboard", "", "/dashboard/edit-profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.subject, Classify(tt.path, tt.query))
			assert.Equal(t, tt.want, got.Redirect)
			assert.Equal(t, tt.want != "", got.Redirects())
		})
	}
}

// Every non-admin subject is kept off admin pages.
func TestDecide_AdminRoutesNeverServedToNonAdmins(t *testing.T) {
	for _, status := range []string{"", "pending", "rejected", "banned", "active", "weird"} {
		for _, complete := range []bool{false, true} {
			s := subject(status, false, complete)
			d := Decide(s, Classify("/admin/settings", ""))
			assert.True(t, d.Redirects(), "status=%q complete=%v", status, complete)
		}
	}
	assert.True(t, Decide(SubjectFrom(nil), Classify("/admin", "")).Redirects())
}

// Following redirects always settles on a page the subject may view.
func TestDecide_RedirectsSettle(t *testing.T) {
	subjects := []Subject{
		SubjectFrom(nil),
		subject("", false, false),
		subject("pending", false, false),
		subject("rejected", false, false),
		subject("banned", false, false),
		subject("active", false, false),
		subject("active", true, true),
	}
	paths := []string{"/", "/admin", "/dashboard", "/dashboard/edit-profile", "/status", "/complete-registration", "/api/x"}

	for _, s := range subjects {
		for _, p := range paths {
			route := Classify(p, "")
			hops := 0
			for d := Decide(s, route); d.Redirects(); d = Decide(s, route) {
				hops++
				require.LessOrEqual(t, hops, 2, "%s: %s keeps redirecting (%s)", s.State, p, d.Redirect)
				path, query, _ := strings.Cut(d.Redirect, "?")
				route = Classify(path, query)
			}
		}
	}
}
