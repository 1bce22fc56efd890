package checkers

import (
	"context"
	"errors"
)

// ExtractorChecker reports not-ready while the generative model credentials
// are missing, so a misconfigured deployment fails its probe instead of
// failing its first upload.
type ExtractorChecker struct {
	apiKey string
}

func NewExtractorChecker(apiKey string) *ExtractorChecker {
	return &ExtractorChecker{apiKey: apiKey}
}

func (c *ExtractorChecker) Name() string { return "extractor" }

func (c *ExtractorChecker) Check(ctx context.Context) error {
	if c.apiKey == "" {
		return errors.New("gemini api key not configured")
	}
	return nil
}
