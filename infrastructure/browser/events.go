package browser

import (
	"bdd_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
)

type dialog struct {
	dialog playwright.Dialog
}

func (d *dialog) Type() string    { return d.dialog.Type() }
func (d *dialog) Message() string { return d.dialog.Message() }
func (d *dialog) Dismiss() error  { return d.dialog.Dismiss() }

func (d *dialog) Accept(promptText string) error {
	if promptText == "" {
		return d.dialog.Accept()
	}
	return d.dialog.Accept(promptText)
}

type route struct {
	route playwright.Route
}

func (r *route) Request() interfaces.Request { return r.route.Request() }
func (r *route) Continue() error             { return r.route.Continue() }
func (r *route) Abort() error                { return r.route.Abort() }

func (r *route) Fulfill(status int, contentType, body string) error {
	return r.route.Fulfill(playwright.RouteFulfillOptions{
		Status:      playwright.Int(status),
		ContentType: playwright.String(contentType),
		Body:        body,
	})
}
