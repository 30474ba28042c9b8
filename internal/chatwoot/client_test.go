package chatwoot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientConfigured(t *testing.T) {
	if (&Client{}).Configured() {
		t.Fatalf("empty config must not report configured")
	}
	c := New(Config{BaseURL: "https://chat.example.com", AccountID: "1", APIToken: "tok"}, nil)
	if !c.Configured() {
		t.Fatalf("full config must report configured")
	}
}

func TestClientUnconfiguredCallFails(t *testing.T) {
	c := New(Config{}, nil)
	if err := c.SendMessage(context.Background(), 1, "hi"); err == nil {
		t.Fatalf("expected error from unconfigured relay")
	}
}

func TestSendMessage(t *testing.T) {
	var gotPath, gotToken string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("api_access_token")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, AccountID: "42", APIToken: "tok"}, srv.Client())
	if err := c.SendMessage(context.Background(), 7, "your order shipped"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/v1/accounts/42/conversations/7/messages" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotToken != "tok" {
		t.Fatalf("unexpected token %q", gotToken)
	}
	if gotBody["message_type"] != "outgoing" || gotBody["private"] != false {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	c := New(Config{BaseURL: "https://chat.example.com", AccountID: "1", APIToken: "tok"}, nil)
	err := c.UpdateStatus(context.Background(), 7, "closed")
	if err == nil || !strings.Contains(err.Error(), "invalid conversation status") {
		t.Fatalf("expected status validation error, got %v", err)
	}
}

func TestCallSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, AccountID: "42", APIToken: "bad"}, srv.Client())
	err := c.AddLabels(context.Background(), 7, []string{"human"})
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected status error, got %v", err)
	}
}
