package checkers

import (
	"context"
	"testing"
	"time"
)

func TestPostgresCheckerDefaults(t *testing.T) {
	c := NewPostgresChecker(nil, 0)
	if c.timeout != DefaultProbeTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, DefaultProbeTimeout)
	}
	c = NewPostgresChecker(nil, 5*time.Second)
	if c.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.timeout)
	}
	if c.Name() != "postgres" {
		t.Errorf("name = %q", c.Name())
	}
}

func TestExtractorChecker(t *testing.T) {
	ctx := context.Background()

	c := NewExtractorChecker("")
	if c.Name() != "extractor" {
		t.Errorf("name = %q", c.Name())
	}
	if err := c.Check(ctx); err == nil {
		t.Error("expected not-ready without an api key")
	}
	if err := NewExtractorChecker("key").Check(ctx); err != nil {
		t.Errorf("configured checker: %v", err)
	}
}
