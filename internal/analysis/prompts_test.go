package analysis

import (
	"strings"
	"testing"
)

func TestSystemInstructionsIncludeKnowledgeBase(t *testing.T) {
	got := SystemInstructions()

	// The analyst framing comes first, then the domain knowledge.
	wantSections := []string{
		"CAMERA ANGLES",
		"CONSERVATIVE DETECTION PHILOSOPHY",
		"FOOTBALL KNOWLEDGE BASE",
		"OFFENSIVE POSITIONS",
		"ROUTE TREE",
		"BLOCKING SCHEMES",
		"TACKLE IDENTIFICATION",
		"SACK IDENTIFICATION",
		"TURNOVER IDENTIFICATION",
		"INSIDE RUN VS OUTSIDE RUN",
	}
	last := -1
	for _, section := range wantSections {
		idx := strings.Index(got, section)
		if idx < 0 {
			t.Errorf("system instructions missing section %q", section)
			continue
		}
		if idx < last {
			t.Errorf("section %q out of order", section)
		}
		last = idx
	}
}

func TestDetectionPromptEmbedsQuery(t *testing.T) {
	prompt := detectionPrompt("all runs by #22")
	if !strings.Contains(prompt, "all runs by #22") {
		t.Error("detection prompt does not contain the query")
	}
	if !strings.Contains(prompt, "empty array") {
		t.Error("detection prompt does not demand an empty array fallback")
	}
}
