package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

func (c *HTTPClient) AdminLogin(ctx context.Context, creds models.Credentials) (*models.AuthTokens, error) {
	var tokens models.AuthTokens
	if err := c.do(ctx, request{method: http.MethodPost, path: "admin-user/login/", json: creds}, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (c *HTTPClient) Customers(ctx context.Context, p models.ListParams) (*models.Page[models.Customer], error) {
	var page models.Page[models.Customer]
	if err := c.do(ctx, request{method: http.MethodGet, path: "admin-user/customers/", query: listQuery(p), auth: true}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) Translations(ctx context.Context, p models.ListParams) (*models.Page[models.Translation], error) {
	var page models.Page[models.Translation]
	if err := c.do(ctx, request{method: http.MethodGet, path: "admin-user/translations/", query: listQuery(p), auth: true}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) SaveTranslation(ctx context.Context, t models.Translation) (*models.Translation, error) {
	form := newMultipartForm(map[string]string{
		"name":            t.Name,
		"initial_text":    t.InitialText,
		"translated_text": t.TranslatedText,
	})
	var saved models.Translation
	if err := c.do(ctx, request{method: http.MethodPost, path: "admin-user/translations/", form: form, auth: true}, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *HTTPClient) DeleteTranslation(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("admin-user/translations/%d/", id), auth: true}, nil)
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, auth: true}, out)
}

func (c *HTTPClient) BaseStats(ctx context.Context) (*models.BaseStats, error) {
	var out models.BaseStats
	if err := c.get(ctx, "statistics/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) StatusDistribution(ctx context.Context) ([]models.StatusStat, error) {
	var out []models.StatusStat
	if err := c.get(ctx, "statistics/status-distribution/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) OrderingDynamics(ctx context.Context) ([]models.PeriodCount, error) {
	var out []models.PeriodCount
	if err := c.get(ctx, "statistics/ordering-dynamics/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) TypeDistribution(ctx context.Context) ([]models.TypeStat, error) {
	var out []models.TypeStat
	if err := c.get(ctx, "statistics/type-distribution/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CustomersGeography(ctx context.Context) ([]models.GeographyStat, error) {
	var out []models.GeographyStat
	if err := c.get(ctx, "statistics/customers-geography/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CustomersGrowth(ctx context.Context) ([]models.PeriodCount, error) {
	var out []models.PeriodCount
	if err := c.get(ctx, "statistics/customers-growth/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) OrderRequestComparison(ctx context.Context) (*models.Comparison, error) {
	var out models.Comparison
	if err := c.get(ctx, "statistics/order-request-comparison/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
