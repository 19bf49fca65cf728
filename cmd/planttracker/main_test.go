package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/jarcoal/httpmock"

	"planttracker/internal/services/session"
	"planttracker/internal/testsupport"
)

const backendURL = "https://plants.example.com"

type cliTestEnv struct {
	configPath string
	baseDir    string
	tokenFile  string

	mu      sync.Mutex
	docs    []map[string]any
	deleted []string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("PLANTTRACKER_BACKEND_URL", "")
	t.Setenv("PLANTNET_API_KEY", "")

	env := &cliTestEnv{
		configPath: filepath.Join(base, "config.toml"),
		baseDir:    base,
		tokenFile:  filepath.Join(base, "session.json"),
	}
	writeTestConfig(t, env)

	if err := session.NewFileTokenStore(env.tokenFile).Save(session.Token{AccessToken: "tok-1"}); err != nil {
		t.Fatalf("save token: %v", err)
	}

	httpmock.RegisterResponder(http.MethodGet, backendURL+"/api/auth/me",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "Bearer tok-1" {
				return httpmock.NewStringResponse(http.StatusUnauthorized, `{"detail":"Not authenticated"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `{"email":"ada@example.com","sub":"user-7"}`), nil
		})
	httpmock.RegisterResponder(http.MethodPost, backendURL+"/api/auth/logout",
		httpmock.NewStringResponder(http.StatusNoContent, ""))
	httpmock.RegisterResponder(http.MethodGet, backendURL+"/api/my-plants",
		func(*http.Request) (*http.Response, error) {
			env.mu.Lock()
			defer env.mu.Unlock()
			return httpmock.NewJsonResponse(http.StatusOK, env.docs)
		})
	httpmock.RegisterResponder(http.MethodPut, backendURL+"/api/update-plant-notes",
		func(req *http.Request) (*http.Response, error) {
			var body map[string]string
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return nil, err
			}
			env.mu.Lock()
			defer env.mu.Unlock()
			for _, doc := range env.docs {
				if doc["id"] == body["id"] {
					doc["notes"] = body["notes"]
				}
			}
			return httpmock.NewJsonResponse(http.StatusOK, body)
		})
	httpmock.RegisterRegexpResponder(http.MethodDelete, regexp.MustCompile(`^`+regexp.QuoteMeta(backendURL+"/api/delete-plant/")+`.+$`),
		func(req *http.Request) (*http.Response, error) {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.deleted = append(env.deleted, filepath.Base(req.URL.Path))
			return httpmock.NewStringResponse(http.StatusNoContent, ""), nil
		})

	return env
}

func (e *cliTestEnv) addDoc(id, name, common string, probability float64, datetime string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs = append(e.docs, map[string]any{
		"id": id,
		"suggestions": []map[string]any{{
			"id":           id + "-s",
			"name":         name,
			"probability":  probability,
			"common_names": []string{common},
			"taxonomy":     map[string]string{"kingdom": "Plantae", "genus": strings.Fields(name)[0], "species": name},
		}},
		"datetime":   datetime,
		"image_data": "data:image/png;base64,YQ==",
	})
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
token_file = %q

[backend]
mode = "remote"
base_url = %q

[history]
timezone = "UTC"

[logging]
level = "error"
`,
		filepath.ToSlash(filepath.Join(env.baseDir, "data")),
		filepath.ToSlash(filepath.Join(env.baseDir, "logs")),
		filepath.ToSlash(env.tokenFile),
		backendURL,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	return testsupport.WriteImage(t, dir, name, testsupport.PNGBytes(t, 16, 16))
}
