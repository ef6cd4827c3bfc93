package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/alnotes/alnotes/internal/config"
	"github.com/alnotes/alnotes/internal/ctxkeys"
	"github.com/alnotes/alnotes/internal/model"
	"github.com/alnotes/alnotes/internal/service"
)

type AuthHandler struct {
	authService       *service.AuthService
	googleOAuthConfig *oauth2.Config
	isProduction      bool
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		isProduction: cfg.IsProduction(),
	}
}

// GoogleAuth redirects to the Google OAuth consent screen
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	// Generate secure state token for CSRF protection
	state := generateOAuthState()

	// Store state in secure cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	url := h.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback handles the OAuth callback from Google and issues the
// session cookie. The identity provider is the source of truth; nothing is
// stored locally.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	// Validate state parameter for CSRF protection
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("google oauth state validation failed", "error", err)
		writeError(w, http.StatusBadRequest, "OAuth authentication failed. Please try again.")
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		writeError(w, http.StatusBadRequest, "OAuth authentication failed. Please try again.")
		return
	}

	// Exchange code for token
	token, err := h.googleOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		writeError(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}

	// Get user info from Google
	client := h.googleOAuthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		writeError(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var userInfo struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil || userInfo.Email == "" {
		slog.Error("failed to decode google user info", "error", err)
		writeError(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}

	identity := &model.Identity{
		ID:          userInfo.Email,
		Name:        userInfo.Name,
		AccessToken: token.AccessToken,
	}
	if identity.Name == "" {
		identity.Name = identity.ID
	}

	jwtToken, err := h.authService.GenerateJWT(identity)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "identity", identity.ID)
		writeError(w, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(h.authService.Expiry()))

	slog.Info("user signed in with google oauth", "identity", identity.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Me reports the current identity, if any
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())
	if identity == nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"identity":      identity,
	})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// generateOAuthState returns a random token binding the OAuth round trip
// to this browser.
func generateOAuthState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
