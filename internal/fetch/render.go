package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/gauravsurtani/social-media-reader/internal/safeurl"
)

// GetRendered loads the page in headless Chrome and returns the DOM after
// scripts have run. Used for embeds that populate sidecar images client-side.
func (c *Client) GetRendered(ctx context.Context, rawURL string, timeout time.Duration) (*Page, error) {
	validated, err := safeurl.Validate(rawURL)
	if err != nil {
		return nil, err
	}

	chromeCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	if timeout > 0 {
		chromeCtx, cancel = context.WithTimeout(chromeCtx, timeout)
		defer cancel()
	}

	var html string
	tasks := []chromedp.Action{
		chromedp.Navigate(validated),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	}

	if err := chromedp.Run(chromeCtx, tasks...); err != nil {
		return nil, fmt.Errorf("failed to run Chrome tasks: %w", err)
	}

	return newPage(validated, html, true), nil
}
