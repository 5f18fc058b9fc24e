package cli

import (
	"bytes"
	"strings"
	"testing"

	"mathrush/internal/domain"
)

func TestTimerFormatsOneDecimal(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerm(&buf)

	term.ShowTimer(19.949999, false)
	if !strings.Contains(buf.String(), "Time: 19.9s") {
		t.Fatalf("timer output = %q", buf.String())
	}
	if strings.Contains(buf.String(), ansiRed) {
		t.Fatal("warning color active without warning")
	}

	buf.Reset()
	term.ShowTimer(2.5, true)
	if !strings.Contains(buf.String(), ansiRed) {
		t.Fatalf("expected warning color, got %q", buf.String())
	}
}

func TestStatsFormat(t *testing.T) {
	var buf bytes.Buffer
	NewTerm(&buf).ShowStats(3, 5.0)
	if !strings.Contains(buf.String(), "Score: 3 | Avg Speed: 5.0s") {
		t.Fatalf("stats output = %q", buf.String())
	}
}

func TestLeaderboardRendering(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerm(&buf)
	term.ShowEntries(domain.SortByScore, []domain.LeaderboardEntry{
		{Username: "alice", Score: 9, AvgSpeed: 2.52},
		{Username: "bob", Score: 7, AvgSpeed: 3.18},
	})

	out := buf.String()
	if !strings.Contains(out, "#1 alice — Score: 9 | Avg Speed: 2.5s") {
		t.Fatalf("first row missing or malformed: %q", out)
	}
	if !strings.Contains(out, "#2 bob") {
		t.Fatalf("rank numbering wrong: %q", out)
	}
}

func TestActiveTabMarksExactlyOne(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerm(&buf)
	term.SetActiveTab(domain.SortBySpeed)
	out := buf.String()
	if strings.Count(out, "*") != 2 || !strings.Contains(out, "*speed*") {
		t.Fatalf("tab line = %q", out)
	}
}
