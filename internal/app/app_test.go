package app

import (
	"testing"

	"gocv.io/x/gocv"

	"trafficflow/internal/config"
)

func TestBuildCandidates(t *testing.T) {
	got, err := BuildCandidates([]config.CameraCandidate{
		{Backend: "v4l2", Index: 0},
		{Backend: "any", Index: 2},
	})
	if err != nil {
		t.Fatalf("BuildCandidates failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(got))
	}
	if got[0].API != gocv.VideoCaptureV4L2 || got[1].API != gocv.VideoCaptureAny || got[1].Index != 2 {
		t.Errorf("Unexpected candidates: %+v", got)
	}

	if _, err := BuildCandidates([]config.CameraCandidate{{Backend: "vhs", Index: 0}}); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestBuildCandidates_Defaults(t *testing.T) {
	for _, goos := range []string{"linux", "windows", "darwin"} {
		if _, err := BuildCandidates(config.DefaultCandidates(goos)); err != nil {
			t.Errorf("Default candidates for %s are invalid: %v", goos, err)
		}
	}
}
