package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	"planttracker/internal/plant"
)

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, env, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, env, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}

	out, _, err = runCLI(t, env, "", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.configPath)
	requireContains(t, out, backendURL)
}

func TestHistoryGroupsByDayWithStats(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addDoc("doc-1", "Rosa gallica", "French rose", 0.62, "2024-05-01T09:30:00Z")
	env.addDoc("doc-2", "Bellis perennis", "Daisy", 0.91, "2024-05-02T10:00:00Z")

	out, _, err := runCLI(t, env, "", "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "French rose")
	requireContains(t, out, "Thursday, May 2, 2024")
	requireContains(t, out, "2 species")
	requireContains(t, out, "avg 77%")
	if strings.Index(out, "Daisy") > strings.Index(out, "French rose") {
		t.Fatalf("expected newest first:\n%s", out)
	}
	if strings.Count(out, "Summary") != 1 || strings.Index(out, "Summary") < strings.Index(out, "French rose") {
		t.Fatalf("expected one summary below every day:\n%s", out)
	}

	out, _, err = runCLI(t, env, "", "history", "--json", "--search", "ROSA")
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var view historyJSON
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode history json: %v\n%s", err, out)
	}
	if len(view.Buckets) != 1 || len(view.Buckets[0].Records) != 1 {
		t.Fatalf("expected one matching record, got %#v", view.Buckets)
	}
	if view.Stats == nil || view.Stats.AvgConfidence != 62 {
		t.Fatalf("unexpected stats %#v", view.Stats)
	}

	if _, _, err := runCLI(t, env, "", "history", "--sort", "sideways"); err == nil {
		t.Fatal("expected invalid sort key to fail")
	}
}

func TestIdentifySendsTaggedImages(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()
	leaf := writeImage(t, dir, "leaf.png")
	flower := writeImage(t, dir, "flower.png")

	httpmock.RegisterResponder(http.MethodPost, backendURL+"/api/identify-plant",
		func(req *http.Request) (*http.Response, error) {
			var body struct {
				ImageData []string `json:"image_data"`
				Organs    []string `json:"organs"`
				UserID    string   `json:"user_id"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return nil, err
			}
			if len(body.ImageData) != 2 || strings.Join(body.Organs, ",") != "leaf,flower" || body.UserID != "user-7" {
				return httpmock.NewStringResponse(http.StatusUnprocessableEntity, `{"detail":"unexpected payload"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `{
				"id": "doc-9",
				"suggestions": [
					{"id": "s1", "name": "Rosa gallica", "probability": 0.62, "common_names": ["French rose"]},
					{"id": "s2", "name": "Rosa canina", "probability": 0.31}
				]
			}`), nil
		})

	out, _, err := runCLI(t, env, "", "identify", leaf+":leaf", flower+":flower", "--json")
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	var rec recordJSON
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode record: %v\n%s", err, out)
	}
	if rec.PlantName != "French rose" || rec.ScientificName != "Rosa gallica" || rec.Confidence != 62 {
		t.Fatalf("unexpected record %#v", rec)
	}
	if rec.Tier != plant.TierLow || rec.Images != 2 {
		t.Fatalf("unexpected tier or image count %#v", rec)
	}
}

func TestIdentifySkipsNonImages(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("not a photo"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, stderr, err := runCLI(t, env, "", "identify", notes)
	if err == nil {
		t.Fatal("expected empty batch error")
	}
	requireContains(t, stderr, "Skipping")
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addDoc("doc-1", "Rosa gallica", "French rose", 0.62, "2024-05-01T09:30:00Z")

	out, _, err := runCLI(t, env, "n\n", "delete", "doc-1")
	if err != nil {
		t.Fatalf("delete (declined): %v", err)
	}
	requireContains(t, out, "Cancelled")
	if len(env.deleted) != 0 {
		t.Fatalf("expected no delete call, got %v", env.deleted)
	}

	out, _, err = runCLI(t, env, "", "delete", "doc-1", "--yes")
	if err != nil {
		t.Fatalf("delete --yes: %v", err)
	}
	requireContains(t, out, "Deleted French rose")
	if strings.Join(env.deleted, ",") != "doc-1" {
		t.Fatalf("unexpected delete calls %v", env.deleted)
	}

	if _, _, err := runCLI(t, env, "", "delete", "missing", "--yes"); err == nil {
		t.Fatal("expected unknown id to fail")
	}
}

func TestNotesSetAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addDoc("doc-1", "Rosa gallica", "French rose", 0.62, "2024-05-01T09:30:00Z")

	out, _, err := runCLI(t, env, "", "notes", "doc-1")
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	requireContains(t, out, "No notes")

	out, _, err = runCLI(t, env, "", "notes", "doc", "--set", "south wall")
	if err != nil {
		t.Fatalf("notes --set: %v", err)
	}
	requireContains(t, out, "Notes saved for French rose")

	out, _, err = runCLI(t, env, "", "notes", "doc-1", "--set", "moved to the porch")
	if err != nil {
		t.Fatalf("notes --set on existing notes: %v", err)
	}
	requireContains(t, out, "Notes saved for French rose")

	out, _, err = runCLI(t, env, "", "notes", "doc-1")
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	requireContains(t, out, "moved to the porch")

	if _, _, err = runCLI(t, env, "", "notes", "doc-1", "--clear"); err != nil {
		t.Fatalf("notes --clear: %v", err)
	}
	out, _, err = runCLI(t, env, "", "notes", "doc-1")
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	requireContains(t, out, "No notes")
}

func TestTaxonomyRendering(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addDoc("doc-1", "Rosa gallica", "French rose", 0.62, "2024-05-01T09:30:00Z")

	out, _, err := runCLI(t, env, "", "taxonomy", "doc-1")
	if err != nil {
		t.Fatalf("taxonomy: %v", err)
	}
	requireContains(t, out, "(K) Kingdom: Plantae ── (G) Genus: Rosa ── (S) Species: Rosa gallica")

	out, _, err = runCLI(t, env, "", "taxonomy", "doc-1", "--mode", "narrow", "--json")
	if err != nil {
		t.Fatalf("taxonomy --json: %v", err)
	}
	var diagram struct {
		Mode  string `json:"mode"`
		Nodes []any  `json:"nodes"`
		Edges []any  `json:"edges"`
	}
	if err := json.Unmarshal([]byte(out), &diagram); err != nil {
		t.Fatalf("decode diagram: %v", err)
	}
	if diagram.Mode != "narrow" || len(diagram.Nodes) != 3 || len(diagram.Edges) != 2 {
		t.Fatalf("unexpected diagram %#v", diagram)
	}
}

func TestSignedOutCommandsExplainLogin(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	requireContains(t, out, "ada@example.com (user-7)")

	out, _, err = runCLI(t, env, "", "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	requireContains(t, out, "Signed out")

	_, _, err = runCLI(t, env, "", "history")
	if err == nil || !strings.Contains(err.Error(), "planttracker login") {
		t.Fatalf("expected login hint, got %v", err)
	}

	out, _, err = runCLI(t, env, "tok-1\n", "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	requireContains(t, out, "Signed in as ada@example.com")
}

func TestParseImageArg(t *testing.T) {
	cases := []struct {
		arg   string
		path  string
		organ plant.Organ
	}{
		{"rose.jpg", "rose.jpg", plant.OrganAuto},
		{"rose.jpg:flower", "rose.jpg", plant.OrganFlower},
		{"rose.jpg:LEAF", "rose.jpg", plant.OrganLeaf},
		{"odd:name.jpg", "odd:name.jpg", plant.OrganAuto},
	}
	for _, tc := range cases {
		path, organ := parseImageArg(tc.arg)
		if path != tc.path || organ != tc.organ {
			t.Errorf("parseImageArg(%q) = %q, %q; want %q, %q", tc.arg, path, organ, tc.path, tc.organ)
		}
	}
}
