package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/sthapati/sthapati_be/internal/access"
	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/store"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type GoogleOAuthHandler struct {
	Users           UserRepo
	Sessions        SessionIssuer
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
	// Enabled is false when no OAuth client is configured.
	Enabled bool

	// FetchProfile exchanges the code for the Google profile. Nil uses the
	// real OAuth2 exchange.
	FetchProfile func(ctx context.Context, code string) (*GoogleProfile, error)
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) tempCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.Sessions.Secure,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	if !h.Enabled {
		return apperrors.NotFound("Google sign-in is not configured")
	}
	next := c.Query("callbackUrl", c.Query("next", "/"))
	st := randomState(32)

	h.tempCookie(c, "oauth_state", st, 10*60)
	h.tempCookie(c, "oauth_next", next, 10*60)

	authURL := h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOnline)
	return c.Redirect(authURL, http.StatusTemporaryRedirect)
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if !h.Enabled {
		return apperrors.NotFound("Google sign-in is not configured")
	}
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return apperrors.BadRequest("Missing code or state")
	}

	stCookie := c.Cookies("oauth_state")
	if stCookie == "" || stCookie != state {
		return apperrors.BadRequest("Invalid OAuth state")
	}
	next := c.Cookies("oauth_next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = access.DashboardPath
	}

	fetch := h.FetchProfile
	if fetch == nil {
		fetch = h.fetchGoogleProfile
	}
	ctx := c.UserContext()
	profile, err := fetch(ctx, code)
	if err != nil {
		zap.L().Warn("google oauth exchange failed", zap.Error(err))
		return apperrors.BadRequest("Google sign-in failed")
	}

	email := normalizeEmail(profile.Email)
	if email == "" || profile.ID == "" {
		return apperrors.BadRequest("Google account has no email")
	}
	if !profile.VerifiedEmail {
		return apperrors.BadRequest("Google account email is not verified")
	}

	u, err := h.findOrCreate(ctx, profile, email)
	if err != nil {
		return err
	}

	if _, err := h.Sessions.Issue(c, u); err != nil {
		return err
	}
	h.tempCookie(c, "oauth_state", "", -1)
	h.tempCookie(c, "oauth_next", "", -1)

	if u.Status == models.StatusNone {
		next = access.CompletionPath
	}
	return c.Redirect(strings.TrimSuffix(h.FrontendBaseURL, "/")+next, http.StatusTemporaryRedirect)
}

// findOrCreate matches by Google id first, then by email (linking the Google
// id); otherwise it creates an account with no status or category.
func (h *GoogleOAuthHandler) findOrCreate(ctx context.Context, p *GoogleProfile, email string) (*models.User, error) {
	u, err := h.Users.ByGoogleID(ctx, p.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Internal("Failed to load user", err)
	}

	u, err = h.Users.ByEmail(ctx, email)
	switch {
	case err == nil:
		gid := p.ID
		u.GoogleID = &gid
		if u.AvatarURL == "" {
			u.AvatarURL = p.Picture
		}
		if err := h.Users.Save(ctx, u); err != nil {
			return nil, apperrors.Internal("Failed to link Google account", err)
		}
		return u, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperrors.Internal("Failed to load user", err)
	}

	gid := p.ID
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	u = &models.User{
		Name:      name,
		Email:     email,
		GoogleID:  &gid,
		AvatarURL: p.Picture,
		Status:    models.StatusNone,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		return nil, apperrors.Internal("Failed to create account", err)
	}
	zap.L().Info("google account created", zap.String("email", email))
	return u, nil
}

func (h *GoogleOAuthHandler) fetchGoogleProfile(ctx context.Context, code string) (*GoogleProfile, error) {
	cfg := h.oauthCfg()
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange: %w", err)
	}

	resp, err := cfg.Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: status %d", resp.StatusCode)
	}

	var p GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("userinfo decode: %w", err)
	}
	return &p, nil
}
