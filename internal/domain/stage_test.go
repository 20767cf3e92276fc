package domain

import "testing"

func TestParseStage(t *testing.T) {
	tests := []struct {
		in   string
		want Stage
	}{
		{"", StageFresh},
		{"none", StageFresh},
		{"merge", StageResumeAtMerge},
		{"dedup", StageResumeAtDedup},
		{"final", StageResumeAtFinal},
		{"early", StageEarlyExit},
	}

	for _, tt := range tests {
		got, err := ParseStage(tt.in)
		if err != nil {
			t.Errorf("ParseStage(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseStage(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseStage_Unknown(t *testing.T) {
	if _, err := ParseStage("resume"); err == nil {
		t.Error("expected error for unknown stage")
	}
}

func TestStage_Builds(t *testing.T) {
	tests := []struct {
		stage   Stage
		splits  bool
		merge   bool
		dedup   bool
		reports bool
	}{
		{StageFresh, true, true, true, true},
		{StageResumeAtMerge, false, true, true, true},
		{StageResumeAtDedup, false, false, true, true},
		{StageResumeAtFinal, false, false, false, true},
		{StageEarlyExit, true, true, true, false},
	}

	for _, tt := range tests {
		if got := tt.stage.BuildsSplits(); got != tt.splits {
			t.Errorf("%s.BuildsSplits() = %v, want %v", tt.stage, got, tt.splits)
		}
		if got := tt.stage.BuildsMerge(); got != tt.merge {
			t.Errorf("%s.BuildsMerge() = %v, want %v", tt.stage, got, tt.merge)
		}
		if got := tt.stage.BuildsDedup(); got != tt.dedup {
			t.Errorf("%s.BuildsDedup() = %v, want %v", tt.stage, got, tt.dedup)
		}
		if got := tt.stage.BuildsReport(); got != tt.reports {
			t.Errorf("%s.BuildsReport() = %v, want %v", tt.stage, got, tt.reports)
		}
	}
}

func TestStage_String(t *testing.T) {
	if got := StageEarlyExit.String(); got != "early" {
		t.Errorf("String() = %q, want %q", got, "early")
	}
	if got := Stage(42).String(); got != "stage(42)" {
		t.Errorf("String() = %q, want %q", got, "stage(42)")
	}
}
