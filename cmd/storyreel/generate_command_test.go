package main

import (
	"encoding/json"
	"strings"
	"testing"

	"storyreel/internal/pipeline"
	"storyreel/internal/testsupport"
)

func TestGenerateRendersAndSaves(t *testing.T) {
	env := setupCLITestEnv(t)
	stub := &stubGenerator{document: testsupport.SampleDocument(t)}

	out, _, err := runCLI(t, env, stub, []string{
		"generate", "a", "lighthouse", "story",
		"--duration", "30", "--cut-length", "10", "--cuts", "3",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "The Last Night")
	requireContains(t, out, "Saved as ")

	if stub.calls != 1 {
		t.Fatalf("expected one generation call, got %d", stub.calls)
	}
	if stub.lastRaw.Prompt != "a lighthouse story" {
		t.Fatalf("unexpected prompt: %q", stub.lastRaw.Prompt)
	}
	if stub.lastRaw.TotalSeconds != 30 {
		t.Fatalf("unexpected duration: %d", stub.lastRaw.TotalSeconds)
	}

	listOut, _, err := runCLI(t, env, nil, []string{"history", "list"})
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, listOut, "The Last Night")
}

func TestGenerateAppliesConfiguredDefaults(t *testing.T) {
	env := setupCLITestEnv(t)
	stub := &stubGenerator{document: testsupport.SampleDocument(t)}

	if _, _, err := runCLI(t, env, stub, []string{"generate", "p", "--no-save"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stub.lastRaw.TotalSeconds != 60 || stub.lastRaw.CutSeconds != 5 || stub.lastRaw.CutCount != 12 {
		t.Fatalf("expected configured defaults, got %+v", stub.lastRaw)
	}
	if stub.lastRaw.Locale != "en" {
		t.Fatalf("unexpected locale: %q", stub.lastRaw.Locale)
	}
}

func TestGenerateJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	stub := &stubGenerator{document: testsupport.SampleDocument(t)}

	out, _, err := runCLI(t, env, stub, []string{"generate", "p", "--json", "--no-save"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var payload struct {
		RunID    string `json:"runId"`
		Document struct {
			Title string `json:"title"`
		} `json:"document"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if payload.RunID != "test-run" {
		t.Fatalf("unexpected run id: %q", payload.RunID)
	}
	if payload.Document.Title != "The Last Night" {
		t.Fatalf("unexpected title: %q", payload.Document.Title)
	}
}

func TestGenerateReportsPipelineFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	stub := &stubGenerator{err: &pipeline.Error{
		Kind:  pipeline.FailureProviderUnavailable,
		RunID: "run-9",
		Err:   errSentinel,
	}}

	_, _, err := runCLI(t, env, stub, []string{"generate", "p"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "provider unavailable") || !strings.Contains(err.Error(), "run-9") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestGenerateCharacterFlagParsing(t *testing.T) {
	env := setupCLITestEnv(t)
	stub := &stubGenerator{document: testsupport.SampleDocument(t)}

	if _, _, err := runCLI(t, env, stub, []string{
		"generate", "p", "--no-save",
		"--character", "Elias: the keeper",
		"--character", "Mara",
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	roster := stub.lastRaw.Characters
	if len(roster) != 2 {
		t.Fatalf("expected 2 characters, got %d", len(roster))
	}
	if roster[0].Name != "Elias" || roster[0].Description != "the keeper" {
		t.Fatalf("unexpected first character: %+v", roster[0])
	}
	if roster[1].Name != "Mara" || roster[1].Description != "" {
		t.Fatalf("unexpected second character: %+v", roster[1])
	}

	if _, _, err := runCLI(t, env, stub, []string{
		"generate", "p", "--no-save", "--character", ": no name",
	}); err == nil {
		t.Fatal("expected error for character without a name")
	}
}
