package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ajmdigital/leads-api/pkg/logging"
)

func TestMissingSecretFailsOpen(t *testing.T) {
	v := New("", logging.Default())
	got := v.Verify(context.Background(), "some-token", "1.2.3.4")

	if got.Outcome != NotConfigured {
		t.Fatalf("expected NotConfigured, got %s", got.Outcome)
	}
	if !got.Allowed() {
		t.Fatal("NotConfigured must allow the request")
	}
}

func TestMissingTokenFailsOpen(t *testing.T) {
	v := New("secret", logging.Default())
	got := v.Verify(context.Background(), "", "1.2.3.4")

	if got.Outcome != NotConfigured {
		t.Fatalf("expected NotConfigured, got %s", got.Outcome)
	}
}

func TestProviderAcceptsToken(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form = map[string]string{
			"secret":   r.PostFormValue("secret"),
			"response": r.PostFormValue("response"),
			"remoteip": r.PostFormValue("remoteip"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"score":0.9}`))
	}))
	defer srv.Close()

	v := New("secret-key", logging.Default()).WithEndpoint(srv.URL)
	got := v.Verify(context.Background(), "tok-123", "1.2.3.4")

	if got.Outcome != Passed {
		t.Fatalf("expected Passed, got %s", got.Outcome)
	}
	if got.Score == nil || *got.Score != 0.9 {
		t.Fatalf("expected score 0.9, got %v", got.Score)
	}
	if form["secret"] != "secret-key" || form["response"] != "tok-123" || form["remoteip"] != "1.2.3.4" {
		t.Fatalf("unexpected form payload: %v", form)
	}
}

func TestProviderRejectsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := New("secret-key", logging.Default()).WithEndpoint(srv.URL)
	got := v.Verify(context.Background(), "bad-token", "1.2.3.4")

	if got.Outcome != Failed {
		t.Fatalf("expected Failed, got %s", got.Outcome)
	}
	if got.Allowed() {
		t.Fatal("Failed must block the request")
	}
}

func TestTransportErrorFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	v := New("secret-key", logging.Default()).WithEndpoint(srv.URL)
	got := v.Verify(context.Background(), "tok", "1.2.3.4")

	if got.Outcome != Failed {
		t.Fatalf("transport error must fail closed, got %s", got.Outcome)
	}
}

func TestGarbageResponseFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	v := New("secret-key", logging.Default()).WithEndpoint(srv.URL)
	if got := v.Verify(context.Background(), "tok", "1.2.3.4"); got.Outcome != Failed {
		t.Fatalf("expected Failed, got %s", got.Outcome)
	}
}
