package prompt

import (
	"strings"
	"testing"
)

const sampleContext = "[1] Go 1.25 released: the release notes (Source: https://go.dev/blog)\n" +
	"[2] Benchmarks: numbers (Published: 2026-08-01) (Source: https://example.com/bench)"

func TestPostProcessInjectsReferences(t *testing.T) {
	content := "Go 1.25 is out with faster builds."

	got := PostProcess(content, sampleContext, nil)
	if !strings.Contains(got, "## References") {
		t.Fatalf("expected a References section, got:\n%s", got)
	}
	if !strings.Contains(got, "[1] Go 1.25 released - https://go.dev/blog") {
		t.Errorf("first reference missing:\n%s", got)
	}
	if !strings.Contains(got, "[2] Benchmarks - https://example.com/bench") {
		t.Errorf("second reference missing:\n%s", got)
	}

	// Applying the post-processor again must not duplicate the section.
	again := PostProcess(got, sampleContext, nil)
	if again != got {
		t.Errorf("post-processing is not idempotent:\n%s", again)
	}
	if strings.Count(again, "## References") != 1 {
		t.Errorf("References section duplicated:\n%s", again)
	}
}

func TestPostProcessRespectsExistingReferences(t *testing.T) {
	content := "Answer [1].\n\nReferences:\n[1] Something - https://example.com"

	got := PostProcess(content, sampleContext, nil)
	if got != content {
		t.Errorf("content with its own cited references must pass through, got:\n%s", got)
	}
}

func TestPostProcessCitationNote(t *testing.T) {
	// A References heading without [1]/[2]/[3] markers gets the
	// clarification note rather than a second generated section.
	content := "An answer.\n\nReferences:\nSomething - https://example.com"

	got := PostProcess(content, sampleContext, nil)
	if !strings.Contains(got, citationNote) {
		t.Fatalf("expected the citation note, got:\n%s", got)
	}
	if strings.Count(got, "References") != 1 {
		t.Errorf("a second References section was generated:\n%s", got)
	}

	again := PostProcess(got, sampleContext, nil)
	if strings.Count(again, citationNote) != 1 {
		t.Errorf("citation note duplicated:\n%s", again)
	}
}

func TestPostProcessSkipsUnparseableContext(t *testing.T) {
	// When no title/URL pairs parse out of the context there is nothing to
	// reference, so the reply passes through untouched.
	content := "An answer without citations."

	got := PostProcess(content, "some unstructured context", nil)
	if got != content {
		t.Errorf("unparseable context must leave the reply unchanged, got:\n%s", got)
	}
}

func TestPostProcessStripsToolMentions(t *testing.T) {
	content := "The weather is sunny.\n" +
		"This result was provided by the Brave search tool.\n" +
		"Tomorrow looks cloudy."

	got := PostProcess(content, "", []string{"search_brave-search"})
	if strings.Contains(got, "provided by") {
		t.Errorf("tool mention line survived:\n%s", got)
	}
	if !strings.Contains(got, "The weather is sunny.") || !strings.Contains(got, "Tomorrow looks cloudy.") {
		t.Errorf("content lines lost:\n%s", got)
	}
}

func TestPostProcessKeepsToolWordsWithoutUsageVerbs(t *testing.T) {
	content := "Searching the archives is a common task."

	got := PostProcess(content, "", []string{"search_brave-search"})
	if got != content {
		t.Errorf("line without a usage verb should survive, got:\n%s", got)
	}
}

func TestPostProcessReasonerNote(t *testing.T) {
	got := PostProcess("Answer.", "", []string{"solve-equation_mcp-reasoner"})
	if !strings.Contains(got, "Reasoning is provided in this separate section") {
		t.Fatalf("expected the reasoner note, got:\n%s", got)
	}

	again := PostProcess(got, "", []string{"solve-equation_mcp-reasoner"})
	if strings.Count(again, "Reasoning is provided in this separate section") != 1 {
		t.Errorf("reasoner note duplicated:\n%s", again)
	}
}

func TestParseReferences(t *testing.T) {
	refs := parseReferences(sampleContext)
	if len(refs) != 2 {
		t.Fatalf("expected 2 references, got %d", len(refs))
	}
	if refs[0].title != "Go 1.25 released" || refs[0].url != "https://go.dev/blog" {
		t.Errorf("refs[0] = %+v", refs[0])
	}
	if refs[1].url != "https://example.com/bench" {
		t.Errorf("refs[1] = %+v", refs[1])
	}

	if got := parseReferences("no structured lines here"); len(got) != 0 {
		t.Errorf("unstructured context should yield no references, got %v", got)
	}
}
