package browser

import (
	"context"
	"time"

	"bdd_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
)

type element struct {
	locator playwright.Locator
	timeout time.Duration
	expect  playwright.PlaywrightAssertions
}

var _ interfaces.Element = (*element)(nil)

type frame struct {
	frame   playwright.FrameLocator
	timeout time.Duration
	expect  playwright.PlaywrightAssertions
}

var _ interfaces.Frame = (*frame)(nil)

func (f *frame) Locator(selector string) interfaces.Element {
	return &element{
		locator: f.frame.Locator(selector),
		timeout: f.timeout,
		expect:  f.expect,
	}
}

func (e *element) IsVisible(ctx context.Context) (bool, error) {
	visible, err := e.locator.IsVisible()
	return visible, translateErr(ctx, err)
}

func (e *element) WaitVisible(ctx context.Context) error {
	err := e.locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: timeoutMs(ctx, e.timeout),
	})
	return translateErr(ctx, err)
}

func (e *element) ExpectVisible(ctx context.Context) error {
	err := e.expect.Locator(e.locator).ToBeVisible(playwright.LocatorAssertionsToBeVisibleOptions{
		Timeout: timeoutMs(ctx, e.timeout),
	})
	return translateAssertion(ctx, err)
}

func (e *element) Click(ctx context.Context) error {
	return translateErr(ctx, e.locator.Click(playwright.LocatorClickOptions{
		Timeout: timeoutMs(ctx, e.timeout),
	}))
}

func (e *element) Fill(ctx context.Context, text string) error {
	return translateErr(ctx, e.locator.Fill(text, playwright.LocatorFillOptions{
		Timeout: timeoutMs(ctx, e.timeout),
	}))
}

func (e *element) SelectOption(ctx context.Context, value string) error {
	_, err := e.locator.SelectOption(playwright.SelectOptionValues{
		Values: playwright.StringSlice(value),
	}, playwright.LocatorSelectOptionOptions{
		Timeout: timeoutMs(ctx, e.timeout),
	})
	return translateErr(ctx, err)
}

func (e *element) Hover(ctx context.Context) error {
	return translateErr(ctx, e.locator.Hover(playwright.LocatorHoverOptions{
		Timeout: timeoutMs(ctx, e.timeout),
	}))
}

func (e *element) Type(ctx context.Context, text string, delay time.Duration) error {
	return translateErr(ctx, e.locator.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Delay:   playwright.Float(float64(delay.Milliseconds())),
		Timeout: timeoutMs(ctx, e.timeout),
	}))
}

func (e *element) TextContent(ctx context.Context) (string, error) {
	text, err := e.locator.TextContent(playwright.LocatorTextContentOptions{
		Timeout: timeoutMs(ctx, e.timeout),
	})
	return text, translateErr(ctx, err)
}

func (e *element) GetAttribute(ctx context.Context, name string) (string, error) {
	value, err := e.locator.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: timeoutMs(ctx, e.timeout),
	})
	return value, translateErr(ctx, err)
}

func (e *element) SetInputFiles(ctx context.Context, paths []string) error {
	return translateErr(ctx, e.locator.SetInputFiles(paths, playwright.LocatorSetInputFilesOptions{
		Timeout: timeoutMs(ctx, e.timeout),
	}))
}
