package sched

import (
	"strings"
	"testing"
)

func TestBuildBsubArgs(t *testing.T) {
	req := Request{
		Name:      "hic_x_merge01",
		Command:   "hic_merge --out /data/merged.txt",
		Queue:     "long",
		MemoryMB:  16384,
		DependsOn: []string{"hic_x_fragsort01", "hic_x_fragsort02"},
	}

	args := buildBsubArgs(req)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-q long",
		"-J hic_x_merge01",
		"-M 16384",
		`ended("hic_x_fragsort01") && ended("hic_x_fragsort02")`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if args[len(args)-1] != req.Command {
		t.Errorf("command should be the last argument, got %q", args[len(args)-1])
	}
}

func TestBuildBsubArgs_NoOptionals(t *testing.T) {
	args := buildBsubArgs(Request{Name: "t", Command: "true", Queue: "short"})
	joined := strings.Join(args, " ")

	if strings.Contains(joined, "-M") {
		t.Error("no -M expected without memory request")
	}
	if strings.Contains(joined, "-w") {
		t.Error("no -w expected without dependencies")
	}
}

func TestDependencyExpr_Empty(t *testing.T) {
	if got := dependencyExpr(nil); got != "" {
		t.Errorf("dependencyExpr(nil) = %q, want empty", got)
	}
}

func TestParseJobID(t *testing.T) {
	handle, err := parseJobID("Job <12345> is submitted to queue <short>.\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handle != "12345" {
		t.Errorf("handle = %q, want 12345", handle)
	}
}

func TestParseJobID_Malformed(t *testing.T) {
	if _, err := parseJobID("Request aborted by esub."); err == nil {
		t.Error("expected error for malformed output")
	}
}
