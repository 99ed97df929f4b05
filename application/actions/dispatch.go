package actions

import (
	"context"
	"fmt"
	"strconv"

	"bdd_automation/domain/entities"
)

// Execute - runs one typed step action and returns its value, if any
func (l *Layer) Execute(ctx context.Context, action entities.Action) (string, error) {
	switch a := action.(type) {
	case entities.Navigate:
		return "", l.Navigate(ctx, a.URL)

	case entities.Click:
		return "", l.Frame(a.Frame).Click(ctx, a.Selector)

	case entities.Fill:
		return "", l.Frame(a.Frame).Fill(ctx, a.Selector, a.Text)

	case entities.Select:
		return "", l.Frame(a.Frame).Select(ctx, a.Selector, a.Value)

	case entities.Hover:
		return "", l.Frame(a.Frame).Hover(ctx, a.Selector)

	case entities.TypeText:
		return "", l.Frame(a.Frame).Type(ctx, a.Selector, a.Text, a.Delay)

	case entities.GetText:
		return l.Frame(a.Frame).GetText(ctx, a.Selector)

	case entities.GetAttribute:
		return l.Frame(a.Frame).GetAttribute(ctx, a.Selector, a.Name)

	case entities.WaitFor:
		return "", l.Frame(a.Frame).WaitFor(ctx, a.Selector)

	case entities.ExpectURL:
		return "", l.ExpectURL(ctx, a.URL)

	case entities.ExpectVisible:
		return "", l.Frame(a.Frame).ExpectVisible(ctx, a.Selector)

	case entities.Upload:
		return "", l.Frame(a.Frame).Upload(ctx, a.Selector, a.Paths...)

	case entities.WaitForNetworkIdle:
		return "", l.WaitForNetworkIdle(ctx, a.Timeout)

	case entities.WaitForResponse:
		resp, err := l.WaitForResponse(ctx, a.Pattern, a.Timeout)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(resp.Status()), nil

	case entities.SwitchPage:
		return "", l.SwitchPage(a.Index)

	case entities.NewPage:
		return "", l.NewPage(ctx)

	case entities.SetLocalStorage:
		return "", l.SetLocalStorage(ctx, a.Key, a.Value)

	case entities.ClearLocalStorage:
		return "", l.ClearLocalStorage(ctx)

	case entities.HandleDialog:
		l.HandleDialog(DialogOptions{Accept: a.Accept, PromptText: a.PromptText})
		return "", nil

	case entities.Screenshot:
		if err := l.Screenshot(ctx, a.Path, a.FullPage); err != nil {
			return "", err
		}
		return a.Path, nil

	case nil:
		return "", entities.NewActionError(entities.ErrConfig, "execute", "", fmt.Errorf("step has no action"))

	default:
		return "", entities.NewActionError(entities.ErrConfig, "execute", string(action.Type()),
			fmt.Errorf("unsupported action %T", action))
	}
}
