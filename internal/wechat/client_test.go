package wechat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_FetchToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cgi-bin/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("grant_type") != "client_credential" || q.Get("appid") != "app" || q.Get("secret") != "sec" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"access_token":"T","expires_in":7200}`))
	}))
	defer ts.Close()

	c := NewClient("app", "sec", ts.URL)
	tok, err := c.FetchToken(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if tok.AccessToken != "T" || tok.ExpiresIn != 7200 {
		t.Fatalf("unexpected token: %+v", tok)
	}
}

func TestClient_FetchTokenDefaultTTL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"T"}`))
	}))
	defer ts.Close()

	c := NewClient("app", "sec", ts.URL)
	tok, err := c.FetchToken(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if tok.ExpiresIn != 7200 {
		t.Fatalf("want default 7200, got %d", tok.ExpiresIn)
	}
}

func TestClient_FetchTokenPlatformError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errcode":40001,"errmsg":"invalid credential"}`))
	}))
	defer ts.Close()

	c := NewClient("app", "sec", ts.URL)
	if _, err := c.FetchToken(context.Background()); err == nil {
		t.Fatalf("want error for errcode payload")
	}
}

func TestClient_SendText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cgi-bin/message/custom/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("access_token") != "T" {
			t.Errorf("missing access token in %s", r.URL.RawQuery)
		}
		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.ToUser != "openid-a" || req.MsgType != "text" || req.Text.Content != "hello" {
			t.Errorf("unexpected body: %+v", req)
		}
		w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}))
	defer ts.Close()

	c := NewClient("app", "sec", ts.URL)
	if err := c.SendText(context.Background(), "T", "openid-a", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
}

func TestClient_SendTextRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errcode":45015,"errmsg":"response out of time limit"}`))
	}))
	defer ts.Close()

	c := NewClient("app", "sec", ts.URL)
	if err := c.SendText(context.Background(), "T", "openid-a", "hello"); err == nil {
		t.Fatalf("want error for non-zero errcode")
	}
}

func TestClient_SendTextTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient("app", "sec", ts.URL)
	if err := c.SendText(context.Background(), "T", "openid-a", "hello"); err == nil {
		t.Fatalf("want error for 5xx status")
	}
}
