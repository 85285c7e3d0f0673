package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadgate_backend/internal/settings"
	"leadgate_backend/platform/logger"
)

type fakeCreds struct {
	creds settings.Credentials
}

func (f *fakeCreds) GatewayCredentials(_ context.Context) (settings.Credentials, error) {
	return f.creds, nil
}

func TestSend_TestModeShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call expected in test mode")
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, &fakeCreds{creds: settings.Credentials{
		AccessToken:   "token",
		PhoneNumberID: "12345",
		TestMode:      true,
	}}, logger.New("development"))

	result, err := client.Send(context.Background(), "+5215551234567", "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || !result.Simulated {
		t.Fatalf("expected simulated success, got %+v", result)
	}
}

func TestSend_MissingCredentialsSimulates(t *testing.T) {
	client := NewClient(&fakeCreds{creds: settings.Credentials{}}, logger.New("development"))

	result, err := client.Send(context.Background(), "+5215551234567", "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || !result.Simulated {
		t.Fatalf("expected simulated success for missing credentials, got %+v", result)
	}
}

func TestSend_DeliversWireFormatPayload(t *testing.T) {
	var got messagePayload
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, &fakeCreds{creds: settings.Credentials{
		AccessToken:   "secret",
		PhoneNumberID: "12345",
	}}, logger.New("development"))

	result, err := client.Send(context.Background(), "+5215551234567", "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.Simulated {
		t.Fatalf("expected real success, got %+v", result)
	}
	if got.To != "5215551234567" {
		t.Fatalf("expected wire-format number without plus, got %q", got.To)
	}
	if got.Text.Body != "hola" {
		t.Fatalf("unexpected body %q", got.Text.Body)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}

func TestSend_GatewayRejectionSurfacesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid recipient"}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, &fakeCreds{creds: settings.Credentials{
		AccessToken:   "secret",
		PhoneNumberID: "12345",
	}}, logger.New("development"))

	result, err := client.Send(context.Background(), "+5215551234567", "hola")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Detail != "invalid recipient" {
		t.Fatalf("expected downstream detail, got %q", result.Detail)
	}
}
