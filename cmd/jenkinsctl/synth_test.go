package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func runSynth(t *testing.T, args ...string) []byte {
	t.Helper()
	level := "error"
	cmd := newSynthCommand(&level)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("synth %v: %v", args, err)
	}
	return out.Bytes()
}

func TestSynthWritesTemplateToStdout(t *testing.T) {
	raw := runSynth(t, "--account", "111122223333")
	var tmpl struct {
		AWSTemplateFormatVersion string                    `json:"AWSTemplateFormatVersion"`
		Resources                map[string]map[string]any `json:"Resources"`
		Outputs                  map[string]any            `json:"Outputs"`
	}
	if err := json.Unmarshal(raw, &tmpl); err != nil {
		t.Fatalf("synth output is not JSON: %v\n%s", err, raw)
	}
	if tmpl.AWSTemplateFormatVersion != "2010-09-09" {
		t.Fatalf("unexpected format version: %s", tmpl.AWSTemplateFormatVersion)
	}
	for _, id := range []string{"Vpc", "Cluster", "FileSystem", "TaskDefinition", "Service", "LoadBalancer", "ScalingPolicy"} {
		if _, ok := tmpl.Resources[id]; !ok {
			t.Fatalf("resource %s missing from synthesized template", id)
		}
	}
	if _, ok := tmpl.Outputs["JenkinsURL"]; !ok {
		t.Fatalf("JenkinsURL output missing")
	}
}

func TestSynthDeterministicAcrossRuns(t *testing.T) {
	first := runSynth(t, "--account", "111122223333", "--region", "eu-west-1")
	second := runSynth(t, "--account", "111122223333", "--region", "eu-west-1")
	if !bytes.Equal(first, second) {
		t.Fatalf("two synth runs with identical inputs differ")
	}
}

func TestSynthWritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.json")
	out := runSynth(t, "--account", "111122223333", "--output", path)
	if len(out) != 0 {
		t.Fatalf("expected no stdout when writing to a file, got %q", out)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read template file: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("template file is not valid JSON")
	}
}

func TestSynthRejectsMissingAccount(t *testing.T) {
	level := "error"
	cmd := newSynthCommand(&level)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected validation error without an account")
	}
}
