// ABOUTME: Tests for aggregator API connection validation.
// ABOUTME: Uses httptest to verify the health probe, auth header, and error handling.
package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateConnection_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/health" {
			t.Errorf("expected /health, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("expected x-api-key=test-key, got %s", r.Header.Get("x-api-key"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"status":"healthy"}`))
	}))
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL, "test-key"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateConnection_NoKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["X-Api-Key"]; ok {
			t.Error("expected no x-api-key header when key is empty")
		}
		_, _ = w.Write([]byte(`{"success":true,"status":"healthy"}`))
	}))
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL, ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateConnection_Unhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"database unavailable"}`))
	}))
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL, ""); err == nil {
		t.Fatal("expected error for unsuccessful health response")
	}
}

func TestValidateConnection_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL, "bad-key"); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestValidateConnection_Unreachable(t *testing.T) {
	if err := ValidateConnection(context.Background(), "http://localhost:1", ""); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestValidateConnection_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ValidateConnection(ctx, server.URL, ""); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
