//go:build basic || database

// Package integration contains end-to-end tests for the commitmood binary.
// These tests are excluded from normal test runs due to build tags.
// To run them: go test -tags basic ./integration (or -tags database for container backends)
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	// sharedBinaryPath holds the path to a commitmood binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// fixtureMessages are served for every repository by the fake GitHub API.
var fixtureMessages = []string{
	"Add wonderful new dashboard",
	"Fix terrible crash on startup",
	"Update changelog",
	"Improve docs, great work everyone",
	"Remove broken and ugly workaround",
}

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the commitmood binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "commitmood-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "commitmood")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build commitmood: %v\n%s", err, out))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// fakeGitHub serves the commit listing endpoint for any owner/repo except "missing".
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 4 || parts[0] != "repos" || parts[3] != "commits" || parts[2] == "missing" {
			http.NotFound(w, r)
			return
		}
		items := []map[string]any{}
		if page := r.URL.Query().Get("page"); page == "" || page == "1" {
			for i, msg := range fixtureMessages {
				items = append(items, map[string]any{
					"sha": strings.Repeat(string(rune('a'+i)), 40),
					"commit": map[string]any{
						"message": msg,
						"author": map[string]any{
							"name": "Mona Lisa",
							"date": time.Date(2024, 3, 1+i, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
						},
					},
				})
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// runCommitmood runs the binary with an isolated HOME and returns its stdout.
func runCommitmood(t *testing.T, home string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "HOME="+home, "COMMITMOOD_PAGE_DELAY=0s")
	cmd.Env = append(cmd.Env, env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		t.Logf("commitmood %s failed: %v\nstderr: %s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), err
}
