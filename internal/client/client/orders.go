package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

func listQuery(p models.ListParams) url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Ordering != "" {
		q.Set("ordering", p.Ordering)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.IsNew != nil {
		q.Set("is_new", strconv.FormatBool(*p.IsNew))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	return q
}

func orderPath(id int64, suffix string) string {
	return fmt.Sprintf("orders/%d/%s", id, suffix)
}

// CreateOrder submits an order with its documents. The bearer token is sent
// when present; anonymous orders are accepted too.
func (c *HTTPClient) CreateOrder(ctx context.Context, form models.OrderForm) (*models.Order, error) {
	mf := newMultipartForm(form.Fields()).attach("files", form.Files...)
	var order models.Order
	if err := c.do(ctx, request{method: http.MethodPost, path: "orders/", form: mf, auth: true}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *HTTPClient) Orders(ctx context.Context, p models.ListParams) (*models.Page[models.Order], error) {
	var page models.Page[models.Order]
	if err := c.do(ctx, request{method: http.MethodGet, path: "orders/", query: listQuery(p), auth: true}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) Order(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: orderPath(id, ""), auth: true}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *HTTPClient) UserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	var list listOf[models.Order]
	path := fmt.Sprintf("orders/user/%d/", userID)
	if err := c.do(ctx, request{method: http.MethodGet, path: path, auth: true}, &list); err != nil {
		return nil, err
	}
	return list.items, nil
}

func (c *HTTPClient) UpdateOrder(ctx context.Context, id int64, upd models.OrderUpdate) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, request{method: http.MethodPatch, path: orderPath(id, ""), json: upd, auth: true}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *HTTPClient) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: orderPath(id, ""), auth: true}, nil)
}

func (c *HTTPClient) ToggleOrder(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodPost, path: orderPath(id, "toggle/"), auth: true}, nil)
}
