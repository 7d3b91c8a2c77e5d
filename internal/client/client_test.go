package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/Poojan2107/Product-Nexus/internal/services"
)

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(services.ProductListResult{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Token = "abc123"
	if _, err := c.FetchProducts(context.Background(), 1, 10, ProductFilters{}); err != nil {
		t.Fatalf("FetchProducts: %v", err)
	}

	if gotAuth != "Bearer abc123" {
		t.Errorf("Authorization = %q, want Bearer abc123", gotAuth)
	}
}

func TestJSONBodyByDefault(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewEncoder(w).Encode(models.Product{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateProduct(context.Background(), models.ProductInput{Name: "Widget", Price: 10}, nil)
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
}

func TestMultipartWhenImageAttached(t *testing.T) {
	var gotContentType, gotFilename, gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotName = r.FormValue("name")
			if _, header, err := r.FormFile("image"); err == nil {
				gotFilename = header.Filename
			}
		}
		_ = json.NewEncoder(w).Encode(models.Product{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	image := &models.ImageUpload{Filename: "widget.png", ContentType: "image/png", Data: []byte{0x89, 0x50}}
	_, err := c.CreateProduct(context.Background(), models.ProductInput{Name: "Widget", Price: 10}, image)
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Errorf("Content-Type = %q, want multipart/form-data", gotContentType)
	}
	if gotFilename != "widget.png" {
		t.Errorf("filename = %q, want widget.png", gotFilename)
	}
	if gotName != "Widget" {
		t.Errorf("form name field = %q, want Widget", gotName)
	}
}

func TestServerMessageSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "validation error: price"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateProduct(context.Background(), models.ProductInput{}, nil)
	if err == nil || !strings.Contains(err.Error(), "validation error") {
		t.Errorf("expected the server message in the error, got %v", err)
	}
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "issued-token",
			"user":  models.User{Name: "Alice"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Login(context.Background(), "a@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if c.Token != "issued-token" {
		t.Errorf("client token = %q, want issued-token", c.Token)
	}
	if resp.User.Name != "Alice" {
		t.Errorf("user name = %q, want Alice", resp.User.Name)
	}
}

func TestFetchProductsCancellable(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL)
	if _, err := c.FetchProducts(ctx, 1, 10, ProductFilters{}); err == nil {
		t.Error("cancelled fetch should return an error")
	}
}
