package pipeline

import (
	"bytes"
	"testing"

	"github.com/ppiankov/wikibox/internal/model"
)

func TestRenderFields(t *testing.T) {
	fields := []model.Field{
		{Label: "Capital", Value: "Tokyo"},
		{Label: "Population", Value: "125 million"},
	}

	var buf bytes.Buffer
	if err := NewRenderer(false).RenderFields(&buf, fields); err != nil {
		t.Fatalf("RenderFields failed: %v", err)
	}

	want := "Capital: Tokyo\nPopulation: 125 million\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRenderFields_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).RenderFields(&buf, nil); err != nil {
		t.Fatalf("RenderFields failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestRenderFields_CollapsesWhitespace(t *testing.T) {
	fields := []model.Field{{Label: "Official\nlanguages", Value: "English\n  French"}}

	var buf bytes.Buffer
	if err := NewRenderer(false).RenderFields(&buf, fields); err != nil {
		t.Fatalf("RenderFields failed: %v", err)
	}
	if want := "Official languages: English French\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRenderFields_Align(t *testing.T) {
	fields := []model.Field{
		{Label: "Capital", Value: "Tokyo"},
		{Label: "Population", Value: "125 million"},
		{Label: "首都", Value: "東京"},
	}

	var buf bytes.Buffer
	if err := NewRenderer(true).RenderFields(&buf, fields); err != nil {
		t.Fatalf("RenderFields failed: %v", err)
	}

	want := "Capital   : Tokyo\n" +
		"Population: 125 million\n" +
		"首都      : 東京\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderLookup(t *testing.T) {
	var buf bytes.Buffer
	lookup := &model.Lookup{
		Title:  "United_States",
		Meta:   model.FetchMeta{StatusCode: 200},
		Fields: []model.Field{{Label: "Capital", Value: "Washington, D.C."}},
	}
	if err := NewRenderer(false).RenderLookup(&buf, lookup); err != nil {
		t.Fatalf("RenderLookup failed: %v", err)
	}
	if want := "== United States ==\nCapital: Washington, D.C.\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	missing := &model.Lookup{Title: "Nowhere_Land", Meta: model.FetchMeta{StatusCode: 404}}
	if err := NewRenderer(false).RenderLookup(&buf, missing); err != nil {
		t.Fatalf("RenderLookup failed: %v", err)
	}
	if want := "== Nowhere Land ==\n(no infobox, HTTP 404)\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
