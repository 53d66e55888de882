package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newReleaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/saranya/tutorquest/releases/latest" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"tag_name": %q, "html_url": "https://github.com/saranya/tutorquest/releases/tag/%s"}`, tag, tag)
	}))
}

func TestCheck_UpdateAvailable(t *testing.T) {
	srv := newReleaseServer(t, "v1.2.0")
	defer srv.Close()

	c := NewChecker(WithBaseURLs(srv.URL, srv.URL))
	result, err := c.Check(context.Background(), &CheckInput{Version: "v1.1.0"})
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if !result.UpdateAvailable {
		t.Error("expected update to be available")
	}
	if result.LatestVersion != "v1.2.0" {
		t.Errorf("LatestVersion = %q, want v1.2.0", result.LatestVersion)
	}
}

func TestCheck_AlreadyLatest(t *testing.T) {
	srv := newReleaseServer(t, "v1.1.0")
	defer srv.Close()

	c := NewChecker(WithBaseURLs(srv.URL, srv.URL))
	result, err := c.Check(context.Background(), &CheckInput{Version: "1.1.0"})
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if result.UpdateAvailable {
		t.Error("expected no update for matching versions")
	}
}

func TestCheck_DevBuild(t *testing.T) {
	srv := newReleaseServer(t, "v9.9.9")
	defer srv.Close()

	c := NewChecker(WithBaseURLs(srv.URL, srv.URL))
	result, err := c.Check(context.Background(), &CheckInput{Version: "(devel)"})
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if result.UpdateAvailable {
		t.Error("expected no update offer for a development build")
	}
}

func TestCheck_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewChecker(WithBaseURLs(srv.URL, srv.URL))
	if _, err := c.Check(context.Background(), &CheckInput{Version: "v1.0.0"}); err == nil {
		t.Error("expected error on HTTP 500")
	}
}

func TestNormalizeVersion(t *testing.T) {
	cases := map[string]string{
		"1.2.3":   "v1.2.3",
		"v1.2.3":  "v1.2.3",
		"(devel)": "(devel)",
		"":        "",
	}
	for in, want := range cases {
		if got := normalizeVersion(in); got != want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func makeTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o755, Size: int64(len(content))}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestUpdate_ReplacesBinary(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("release assets only published for linux and darwin")
	}

	newBinary := []byte("#!/bin/sh\necho new\n")
	archive := makeTarGz(t, "tutorquest", newBinary)
	sum := sha256.Sum256(archive)
	asset, err := assetName(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Fatal(err)
	}
	checksums := hex.EncodeToString(sum[:]) + "  " + asset + "\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/saranya/tutorquest/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name": "v2.0.0"}`)
	})
	mux.HandleFunc("/saranya/tutorquest/releases/download/v2.0.0/"+asset, func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	})
	mux.HandleFunc("/saranya/tutorquest/releases/download/v2.0.0/checksums.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, checksums)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "tutorquest")
	if err := os.WriteFile(target, []byte("old"), 0o755); err != nil {
		t.Fatal(err)
	}

	c := NewChecker(
		WithBaseURLs(srv.URL, srv.URL),
		WithExecPath(func() (string, error) { return target, nil }),
	)

	var stages []string
	err = c.Update(context.Background(), "v1.0.0", func(msg string) { stages = append(stages, msg) })
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, newBinary) {
		t.Error("binary was not replaced with the downloaded content")
	}
	if len(stages) == 0 {
		t.Error("expected progress reports")
	}
}

func TestUpdate_DevBuildRefused(t *testing.T) {
	c := NewChecker()
	err := c.Update(context.Background(), "(devel)", func(string) {})
	if !errors.Is(err, ErrDevBuild) {
		t.Errorf("error = %v, want ErrDevBuild", err)
	}
}

func TestUpdate_ChecksumMismatch(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("release assets only published for linux and darwin")
	}

	archive := makeTarGz(t, "tutorquest", []byte("binary"))
	asset, err := assetName(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/saranya/tutorquest/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name": "v2.0.0"}`)
	})
	mux.HandleFunc("/saranya/tutorquest/releases/download/v2.0.0/"+asset, func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	})
	mux.HandleFunc("/saranya/tutorquest/releases/download/v2.0.0/checksums.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "deadbeef  "+asset+"\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewChecker(WithBaseURLs(srv.URL, srv.URL))
	err = c.Update(context.Background(), "v1.0.0", func(string) {})
	if !errors.Is(err, ErrChecksum) {
		t.Errorf("error = %v, want ErrChecksum", err)
	}
}
