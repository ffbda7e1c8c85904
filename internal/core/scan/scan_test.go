package scan

import (
	"log/slog"
	"testing"

	"boardsweep/internal/core"
	"boardsweep/internal/core/config"
)

const boardHTML = `
<html><body>
<ul class="board">
  <li data-task-id="t1">
    <span class="task-title">Ship done checklist</span>
    <span class="task-tag">done</span>
    <span class="task-status">closed</span>
  </li>
  <li data-task-id="t2">
    <span class="task-title">Plan next sprint</span>
    <span class="task-tag">planning</span>
    <span class="task-status">open</span>
  </li>
  <li data-task-id="t3">
    <span class="task-title">Obsolete migration notes</span>
    <span class="task-tag">stale</span>
    <span class="task-tag">docs</span>
    <span class="task-status">closed</span>
  </li>
  <li>
    <span class="task-title">Row with no id</span>
  </li>
  <li data-task-id="t4">
    <span class="task-title">Done but pinned</span>
    <span class="task-tag">pinned</span>
    <span class="task-status">closed</span>
  </li>
</ul>
</body></html>`

func defaultSelectors() config.Selectors {
	return config.Selectors{
		Row:       "li[data-task-id]",
		RowIDAttr: "data-task-id",
		Title:     ".task-title",
		Tag:       ".task-tag",
		Status:    ".task-status",
	}
}

func mustMatcher(t *testing.T, p config.Policy) *Matcher {
	t.Helper()
	m, err := NewMatcher(p)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	return m
}

func TestParse_ExtractsCandidates(t *testing.T) {
	m := mustMatcher(t, config.Policy{})
	got, err := Parse(boardHTML, defaultSelectors(), m, 0, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("got %d candidates, want 4 (the id-less row is skipped)", len(got))
	}

	first := got[0]
	if first.RowID != "t1" {
		t.Errorf("RowID = %q, want t1", first.RowID)
	}
	if first.Title != "Ship done checklist" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Status != "closed" {
		t.Errorf("Status = %q, want closed", first.Status)
	}
	if want := `li[data-task-id][data-task-id="t1"]`; first.Selector != want {
		t.Errorf("Selector = %q, want %q", first.Selector, want)
	}

	if tags := got[2].Tags; len(tags) != 2 || tags[0] != "stale" || tags[1] != "docs" {
		t.Errorf("t3 tags = %v, want [stale docs]", tags)
	}
}

func TestParse_KeywordPolicy(t *testing.T) {
	m := mustMatcher(t, config.Policy{Keywords: []string{"done", "obsolete"}})
	got, err := Parse(boardHTML, defaultSelectors(), m, 0, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := rowIDs(got)
	want := []string{"t1", "t3", "t4"}
	if len(ids) != len(want) {
		t.Fatalf("matched %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("matched %v, want %v", ids, want)
			break
		}
	}
}

func TestParse_IgnoreRegex(t *testing.T) {
	m := mustMatcher(t, config.Policy{
		Keywords:    []string{"done"},
		IgnoreRegex: "(?i)pinned",
	})
	got, err := Parse(boardHTML, defaultSelectors(), m, 0, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range got {
		if c.RowID == "t4" {
			t.Error("t4 carries the pinned tag and must be ignored")
		}
	}
	if len(got) != 1 || got[0].RowID != "t1" {
		t.Errorf("matched %v, want just t1", rowIDs(got))
	}
}

func TestParse_CapsAtLimit(t *testing.T) {
	m := mustMatcher(t, config.Policy{})
	got, err := Parse(boardHTML, defaultSelectors(), m, 2, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d candidates, want the 2-row cap honored", len(got))
	}
}

func TestNewMatcher_BadRegex(t *testing.T) {
	_, err := NewMatcher(config.Policy{IgnoreRegex: "("})
	if err == nil {
		t.Error("expected an error for an invalid ignore regex")
	}
}

func TestMatcher_CaseInsensitive(t *testing.T) {
	m := mustMatcher(t, config.Policy{Keywords: []string{"DONE"}})
	if !m.Match(core.Candidate{Title: "everything done here"}) {
		t.Error("keyword matching must be case-insensitive")
	}
	if m.Match(core.Candidate{Title: "still in progress"}) {
		t.Error("non-matching title must not match")
	}
}

func rowIDs(cs []core.Candidate) []string {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.RowID)
	}
	return ids
}
