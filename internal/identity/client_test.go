package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignUpParsesAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts:signUp" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query: %s", r.URL.RawQuery)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["email"] != "a@x.com" || body["returnSecureToken"] != true {
			t.Errorf("unexpected request body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"localId": "uid-123",
			"email":   "a@x.com",
			"idToken": "tok",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	account, err := client.SignUp(context.Background(), "a@x.com", "pw123456")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if account.UID != "uid-123" || account.Email != "a@x.com" {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestSignInRejectedPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"INVALID_PASSWORD"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	_, err := client.SignIn(context.Background(), "a@x.com", "wrong")
	if err == nil {
		t.Fatal("expected error for rejected password")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "INVALID_PASSWORD" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestSignInMissingUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"email":"a@x.com"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	if _, err := client.SignIn(context.Background(), "a@x.com", "pw123456"); err == nil {
		t.Fatal("expected error for response without user id")
	}
}

func TestSignInTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, "test-key")
	if _, err := client.SignIn(context.Background(), "a@x.com", "pw123456"); err == nil {
		t.Fatal("expected error for unreachable provider")
	}
}
