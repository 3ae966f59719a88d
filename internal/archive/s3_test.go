// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package archive

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeS3 accepts PutObject calls and records what it received.
type fakeS3 struct {
	mu          sync.Mutex
	method      string
	path        string
	contentType string
	body        string
	auth        string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.method = r.Method
	f.path = r.URL.Path
	f.contentType = r.Header.Get("Content-Type")
	f.body = string(body)
	f.auth = r.Header.Get("Authorization")
	f.mu.Unlock()

	w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	w.WriteHeader(http.StatusOK)
}

func testConfig(endpoint string) Config {
	return Config{
		Endpoint:  endpoint,
		Region:    "eu-central-1",
		AccessKey: "AKIATEST",
		SecretKey: "secret",
		Bucket:    "exports",
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no bucket", Config{AccessKey: "a", SecretKey: "b"}},
		{"no access key", Config{Bucket: "x", SecretKey: "b"}},
		{"no secret key", Config{Bucket: "x", AccessKey: "a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Bucket() != "exports" {
		t.Errorf("Bucket: got %q", c.Bucket())
	}

	body := []byte(`[{"id":"1"}]`)
	if err := c.Upload(context.Background(), "promptpolish/history.json", "application/json", body); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.method != http.MethodPut {
		t.Errorf("method: got %s, want PUT", fake.method)
	}
	if fake.path != "/exports/promptpolish/history.json" {
		t.Errorf("path: got %s, want path-style bucket/key", fake.path)
	}
	if fake.contentType != "application/json" {
		t.Errorf("Content-Type: got %q", fake.contentType)
	}
	if !strings.Contains(fake.body, `[{"id":"1"}]`) {
		t.Errorf("body: got %q", fake.body)
	}
	if !strings.Contains(fake.auth, "Credential=AKIATEST/") {
		t.Errorf("request should be signed with the static key, got %q", fake.auth)
	}
}

func TestUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = c.Upload(context.Background(), "k", "text/plain", []byte("x"))
	if err == nil {
		t.Fatal("expected error on 403")
	}
	if !strings.Contains(err.Error(), "s3 upload exports/k") {
		t.Errorf("error should name the object: %v", err)
	}
}

func TestPresignedURL(t *testing.T) {
	c, err := New(testConfig("http://s3.example.com"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	raw, err := c.PresignedURL(context.Background(), "promptpolish/history.md", time.Hour)
	if err != nil {
		t.Fatalf("PresignedURL: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	if u.Host != "s3.example.com" || u.Path != "/exports/promptpolish/history.md" {
		t.Errorf("URL: got host=%s path=%s", u.Host, u.Path)
	}
	q := u.Query()
	if q.Get("X-Amz-Expires") != "3600" {
		t.Errorf("X-Amz-Expires: got %q", q.Get("X-Amz-Expires"))
	}
	if q.Get("X-Amz-Signature") == "" {
		t.Error("URL should be signed")
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"", "a.json", "promptpolish/a.json"},
		{"/backups/", "a.json", "backups/a.json"},
		{"team/exports", "a.md", "team/exports/a.md"},
	}
	for _, tc := range tests {
		if got := Key(tc.prefix, tc.name); got != tc.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tc.prefix, tc.name, got, tc.want)
		}
	}
}
