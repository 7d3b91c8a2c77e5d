// Package client is the API consumer used by the state store and the command
// terminal. It mirrors the server's JSON contract: bearer token on every
// authenticated call, JSON bodies by default and multipart form data when a
// payload carries an image upload.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/Poojan2107/Product-Nexus/internal/services"
)

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

// apiError carries the server's JSON message for non-2xx responses.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return &apiError{Status: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

// doMultipart sends string fields plus an optional image file.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, image *models.ImageUpload, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return err
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", image.Filename)
		if err != nil {
			return err
		}
		if _, err := part.Write(image.Data); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return c.do(ctx, method, path, &buf, writer.FormDataContentType(), out)
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates and remembers the bearer token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return AuthResponse{}, err
	}
	c.Token = resp.Token
	return resp, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	return resp.User, err
}

// Logout drops the bearer token after notifying the server.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.Token = ""
	return err
}

// Status returns the API liveness message.
func (c *Client) Status(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/auth/status", nil, &resp)
	return resp.Message, err
}

// ProductFilters are the listing controls, kept as strings the way the
// search form produces them.
type ProductFilters struct {
	Search   string
	MinPrice string
	MaxPrice string
	SortBy   string
}

// FetchProducts lists one page of the caller's products. The context makes
// the call cancellable so a newer fetch can abort a stale one.
func (c *Client) FetchProducts(ctx context.Context, page, limit int, f ProductFilters) (services.ProductListResult, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("search", f.Search)
	query.Set("minPrice", f.MinPrice)
	query.Set("maxPrice", f.MaxPrice)
	query.Set("sortBy", f.SortBy)

	var resp services.ProductListResult
	err := c.doJSON(ctx, http.MethodGet, "/products?"+query.Encode(), nil, &resp)
	return resp, err
}

func (c *Client) FetchProduct(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	err := c.doJSON(ctx, http.MethodGet, "/products/"+id, nil, &product)
	return product, err
}

// CreateProduct posts JSON, or multipart when an image upload is attached.
func (c *Client) CreateProduct(ctx context.Context, input models.ProductInput, image *models.ImageUpload) (models.Product, error) {
	var product models.Product
	if image == nil {
		err := c.doJSON(ctx, http.MethodPost, "/products", input, &product)
		return product, err
	}
	fields := map[string]string{
		"name":        input.Name,
		"description": input.Description,
		"price":       strconv.FormatFloat(input.Price, 'f', -1, 64),
		"category":    input.Category,
		"subcategory": input.Subcategory,
	}
	err := c.doMultipart(ctx, http.MethodPost, "/products", fields, image, &product)
	return product, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate, image *models.ImageUpload) (models.Product, error) {
	var product models.Product
	if image == nil {
		err := c.doJSON(ctx, http.MethodPut, "/products/"+id, upd, &product)
		return product, err
	}
	fields := map[string]string{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Price != nil {
		fields["price"] = strconv.FormatFloat(*upd.Price, 'f', -1, 64)
	}
	if upd.Category != nil {
		fields["category"] = *upd.Category
	}
	if upd.Subcategory != nil {
		fields["subcategory"] = *upd.Subcategory
	}
	err := c.doMultipart(ctx, http.MethodPut, "/products/"+id, fields, image, &product)
	return product, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

func (c *Client) CreateOrder(ctx context.Context, input models.OrderInput) (models.Order, error) {
	var order models.Order
	err := c.doJSON(ctx, http.MethodPost, "/orders", input, &order)
	return order, err
}

func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.doJSON(ctx, http.MethodGet, "/orders/myorders", nil, &orders)
	return orders, err
}
