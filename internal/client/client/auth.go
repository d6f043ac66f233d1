package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthTokens, error) {
	var tokens models.AuthTokens
	if err := c.do(ctx, request{method: http.MethodPost, path: "user/login/", json: creds}, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Register creates an account. The backend answers with a token pair, or
// with an empty pair while e-mail verification is pending.
func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.AuthTokens, error) {
	var tokens models.AuthTokens
	if err := c.do(ctx, request{method: http.MethodPost, path: "user/register/", json: reg}, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (c *HTTPClient) GoogleLogin(ctx context.Context, accessToken string) (*models.AuthTokens, error) {
	body := map[string]string{"access_token": accessToken}
	var tokens models.AuthTokens
	if err := c.do(ctx, request{method: http.MethodPost, path: "user/login/google/", json: body}, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// RefreshToken exchanges a refresh token for a new pair. When the backend
// does not rotate refresh tokens the returned Refresh is empty.
func (c *HTTPClient) RefreshToken(ctx context.Context, refresh string) (*models.AuthTokens, error) {
	body := map[string]string{"refresh": refresh}
	var tokens models.AuthTokens
	if err := c.do(ctx, request{method: http.MethodPost, path: "user/token-refresh/", json: body}, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (c *HTTPClient) UserData(ctx context.Context) (*models.UserData, error) {
	var data models.UserData
	if err := c.do(ctx, request{method: http.MethodGet, path: "user/user-data/", auth: true}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	form := newMultipartForm(upd.Fields())
	if upd.Image != nil {
		form.attach("profile_img", upd.Image)
	}
	return c.do(ctx, request{method: http.MethodPatch, path: "user/update/", form: form, auth: true}, nil)
}

func (c *HTTPClient) SendResetLink(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, request{method: http.MethodPost, path: "user/password-reset-link/", json: body}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, reset models.PasswordReset) error {
	return c.do(ctx, request{method: http.MethodPost, path: "user/password-reset-confirm/", json: reset}, nil)
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "code": code}
	return c.do(ctx, request{method: http.MethodPost, path: "user/email-verification/", json: body}, nil)
}

func (c *HTTPClient) ResendVerification(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, request{method: http.MethodPost, path: "user/resend-verification/", json: body}, nil)
}

func (c *HTTPClient) Reviews(ctx context.Context, lang string) ([]models.Review, error) {
	q := url.Values{}
	if lang != "" {
		q.Set("lang", lang)
	}
	var list listOf[models.Review]
	if err := c.do(ctx, request{method: http.MethodGet, path: "user/reviews/", query: q}, &list); err != nil {
		return nil, err
	}
	return list.items, nil
}
