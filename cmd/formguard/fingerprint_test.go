package main

import (
	"bytes"
	"strings"
	"testing"

	"middleware-formguard/middleware/dupguard/application"
)

func TestParseSubmission_MergesBodyAndPairs(t *testing.T) {
	v, err := parseSubmission("input_1=Jane&input_2=a%40b.c", []string{"input_3=x=y", "input_1=Joe"})
	if err != nil {
		t.Fatalf("parseSubmission: %v", err)
	}
	if got := v["input_1"]; len(got) != 2 || got[1] != "Joe" {
		t.Fatalf("unexpected input_1 %v", got)
	}
	if v.Get("input_2") != "a@b.c" || v.Get("input_3") != "x=y" {
		t.Fatalf("unexpected values %v", v)
	}

	if _, err := parseSubmission("", []string{"novalue"}); err == nil {
		t.Fatalf("expected error for pair without =")
	}
}

func TestFingerprintCmd_MatchesGuard(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"fingerprint", "--form", "1", "input_1=Jane", "input_2=jane@x.com"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	v, _ := parseSubmission("", []string{"input_1=Jane", "input_2=jane@x.com"})
	want := string(application.Fingerprinter{}.Fingerprint(1, v))
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Fatalf("unexpected version output %q", out.String())
	}
}
