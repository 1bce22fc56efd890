package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/craftfolio/server/pkg/portfolio"
)

func samplePortfolio() *portfolio.Data {
	return &portfolio.Data{
		FullName: "Jane Doe",
		JobTitle: "Backend Engineer",
		Email:    "jane@example.com",
		Location: "Berlin, Germany",
		Summary:  "Backend engineer focused on payment systems.",
		Skills: []portfolio.SkillGroup{
			{Category: "Languages", Items: []string{"Go", "SQL"}},
		},
		Experience: []portfolio.Experience{
			{Company: "Acme", Role: "Engineer", Period: "2021 - Present", Description: []string{"Built the billing pipeline."}},
		},
		Education: []portfolio.Education{
			{Institution: "TU Berlin", Degree: "BSc Computer Science", Period: "2017 - 2021"},
		},
		Projects: []portfolio.Project{
			{Name: "ledgerd", Description: "Double-entry ledger service.", Technologies: []string{"Go", "Postgres"}, Link: "https://example.com/ledgerd"},
		},
		Interests: []string{"cycling"},
	}
}

func TestRenderPortfolio(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, samplePortfolio(), DefaultTemplateID); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"Jane Doe",
		"Backend Engineer",
		"jane@example.com",
		"Built the billing pipeline.",
		"TU Berlin",
		"ledgerd",
		"cycling",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page misses %q", want)
		}
	}
	if strings.Contains(html, "No portfolio here yet") {
		t.Error("placeholder rendered alongside data")
	}
}

func TestRenderPlaceholderWhenNoData(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, nil, ""); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No portfolio here yet") {
		t.Error("placeholder missing for nil portfolio")
	}
}

func TestRenderEscapesUserContent(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	data := samplePortfolio()
	data.Summary = `<script>alert("x")</script>`
	var buf bytes.Buffer
	if err := r.Render(&buf, data, DefaultTemplateID); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert") {
		t.Error("summary not escaped")
	}
}
