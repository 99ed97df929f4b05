package entities

import (
	"fmt"
	"strings"
	"time"
)

// ActionType names a step action as it appears in a suite file
type ActionType string

const (
	ActionNavigate           ActionType = "navigate"
	ActionClick              ActionType = "click"
	ActionFill               ActionType = "fill"
	ActionSelect             ActionType = "select"
	ActionHover              ActionType = "hover"
	ActionTypeText           ActionType = "type"
	ActionGetText            ActionType = "get_text"
	ActionGetAttribute       ActionType = "get_attribute"
	ActionWaitFor            ActionType = "wait_for"
	ActionExpectURL          ActionType = "expect_url"
	ActionExpectVisible      ActionType = "expect_visible"
	ActionUpload             ActionType = "upload"
	ActionWaitForNetworkIdle ActionType = "wait_for_network_idle"
	ActionWaitForResponse    ActionType = "wait_for_response"
	ActionSwitchPage         ActionType = "switch_page"
	ActionNewPage            ActionType = "new_page"
	ActionSetLocalStorage    ActionType = "set_local_storage"
	ActionClearLocalStorage  ActionType = "clear_local_storage"
	ActionHandleDialog       ActionType = "handle_dialog"
	ActionScreenshot         ActionType = "screenshot"
)

// Action is one typed step action. The set of implementations is closed:
// only the types declared in this file satisfy it.
type Action interface {
	Type() ActionType
	isAction()
}

// Element actions carry an optional Frame selector; when set, Selector is
// looked up inside the first iframe matching it instead of the page.
type (
	// Navigate loads URL in the current page
	Navigate struct{ URL string }

	Click struct{ Selector, Frame string }

	Fill struct{ Selector, Text, Frame string }

	Select struct{ Selector, Value, Frame string }

	Hover struct{ Selector, Frame string }

	// TypeText types text key by key with Delay between keystrokes
	TypeText struct {
		Selector string
		Text     string
		Delay    time.Duration
		Frame    string
	}

	GetText struct{ Selector, Frame string }

	GetAttribute struct{ Selector, Name, Frame string }

	// WaitFor blocks until the element is visible
	WaitFor struct{ Selector, Frame string }

	ExpectURL struct{ URL string }

	ExpectVisible struct{ Selector, Frame string }

	Upload struct {
		Selector string
		Paths    []string
		Frame    string
	}

	WaitForNetworkIdle struct{ Timeout time.Duration }

	WaitForResponse struct {
		Pattern string
		Timeout time.Duration
	}

	SwitchPage struct{ Index int }

	NewPage struct{}

	SetLocalStorage struct{ Key, Value string }

	ClearLocalStorage struct{}

	// HandleDialog installs a dialog handler for the rest of the scenario
	HandleDialog struct {
		Accept     bool
		PromptText string
	}

	Screenshot struct {
		Path     string
		FullPage bool
	}
)

func (Navigate) Type() ActionType           { return ActionNavigate }
func (Click) Type() ActionType              { return ActionClick }
func (Fill) Type() ActionType               { return ActionFill }
func (Select) Type() ActionType             { return ActionSelect }
func (Hover) Type() ActionType              { return ActionHover }
func (TypeText) Type() ActionType           { return ActionTypeText }
func (GetText) Type() ActionType            { return ActionGetText }
func (GetAttribute) Type() ActionType       { return ActionGetAttribute }
func (WaitFor) Type() ActionType            { return ActionWaitFor }
func (ExpectURL) Type() ActionType          { return ActionExpectURL }
func (ExpectVisible) Type() ActionType      { return ActionExpectVisible }
func (Upload) Type() ActionType             { return ActionUpload }
func (WaitForNetworkIdle) Type() ActionType { return ActionWaitForNetworkIdle }
func (WaitForResponse) Type() ActionType    { return ActionWaitForResponse }
func (SwitchPage) Type() ActionType         { return ActionSwitchPage }
func (NewPage) Type() ActionType            { return ActionNewPage }
func (SetLocalStorage) Type() ActionType    { return ActionSetLocalStorage }
func (ClearLocalStorage) Type() ActionType  { return ActionClearLocalStorage }
func (HandleDialog) Type() ActionType       { return ActionHandleDialog }
func (Screenshot) Type() ActionType         { return ActionScreenshot }

func (Navigate) isAction()           {}
func (Click) isAction()              {}
func (Fill) isAction()               {}
func (Select) isAction()             {}
func (Hover) isAction()              {}
func (TypeText) isAction()           {}
func (GetText) isAction()            {}
func (GetAttribute) isAction()       {}
func (WaitFor) isAction()            {}
func (ExpectURL) isAction()          {}
func (ExpectVisible) isAction()      {}
func (Upload) isAction()             {}
func (WaitForNetworkIdle) isAction() {}
func (WaitForResponse) isAction()    {}
func (SwitchPage) isAction()         {}
func (NewPage) isAction()            {}
func (SetLocalStorage) isAction()    {}
func (ClearLocalStorage) isAction()  {}
func (HandleDialog) isAction()       {}
func (Screenshot) isAction()         {}

// StepSpec is the untyped row form of a step, as read from a suite file
type StepSpec struct {
	Name      string        `yaml:"name" json:"name"`
	Action    ActionType    `yaml:"action" json:"action"`
	Selector  string        `yaml:"selector,omitempty" json:"selector,omitempty"`
	Frame     string        `yaml:"frame,omitempty" json:"frame,omitempty"`
	Text      string        `yaml:"text,omitempty" json:"text,omitempty"`
	Value     string        `yaml:"value,omitempty" json:"value,omitempty"`
	URL       string        `yaml:"url,omitempty" json:"url,omitempty"`
	Pattern   string        `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Attribute string        `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	Key       string        `yaml:"key,omitempty" json:"key,omitempty"`
	Path      string        `yaml:"path,omitempty" json:"path,omitempty"`
	Paths     []string      `yaml:"paths,omitempty" json:"paths,omitempty"`
	Index     int           `yaml:"index,omitempty" json:"index,omitempty"`
	Delay     time.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	FullPage  bool          `yaml:"full_page,omitempty" json:"full_page,omitempty"`
	Accept    *bool         `yaml:"accept,omitempty" json:"accept,omitempty"`
	Fixture   string        `yaml:"fixture,omitempty" json:"fixture,omitempty"`
}

// ParseAction converts a step row into its typed action.
// Unknown action names and missing required fields fail with ErrConfig.
func ParseAction(spec StepSpec) (Action, error) {
	kind := ActionType(strings.ToLower(strings.TrimSpace(string(spec.Action))))

	need := func(field, value string) error {
		if value == "" {
			return fmt.Errorf("%w: action %q requires %s", ErrConfig, kind, field)
		}
		return nil
	}

	switch kind {
	case ActionNavigate:
		if err := need("url", spec.URL); err != nil {
			return nil, err
		}
		return Navigate{URL: spec.URL}, nil

	case ActionClick:
		if err := need("selector", spec.Selector); err != nil {
			return nil, err
		}
		return Click{Selector: spec.Selector, Frame: spec.Frame}, nil

	case ActionFill:
		if err := need("selector", spec.Selector); err != nil {
			return nil, err
		}
		return Fill{Selector: spec.Selector, Text: spec.Text, Frame: spec.Frame}, nil

	case ActionSelect:
		if err := need("selector", spec.Selector); err != nil {
			return nil, err
		}
		if err := need("value", spec.Value); err != nil {
			return nil, err
		}
		return Select{Selector: spec.Selector, Value: spec.Value, Frame: spec.Frame}, nil

	case ActionHover:
		if err := need("selector", spec.Selector); err != nil {
			return nil, err
		}
		return Hover{Selector: spec.Selector, Frame: spec.Frame}, nil

	case ActionTypeText:
		if err := need("selector", spec.Selector); err != nil {
			return nil, err
		}
		return TypeText{Selector: spec.Selector, Text: spec.Text, Delay: spec.Delay, Frame: spec.Frame}, nil

	case ActionGetText:
		if err := need("selector", spec.Selector); err != nil {
			return nil, err
		}
		return GetText{Selector: spec.Selector, Frame: spec.Frame}, nil

	case ActionGetAttribute:
		if err := need("selector", spec.Selector); err != nil {
			return nil, err
		}
		if err := need("attribute", spec.Attribute); err != nil {
			return nil, err
		}
		return GetAttribute{Selector: spec.Selector, Name: spec.Attribute, Frame: spec.Frame}, nil

	case ActionWaitFor:
		if err := need("selector", spec.Selector); err != nil {
			return nil, err
		}
		return WaitFor{Selector: spec.Selector, Frame: spec.Frame}, nil

	case ActionExpectURL:
		if err := need("url", spec.URL); err != nil {
			return nil, err
		}
		return ExpectURL{URL: spec.URL}, nil

	case ActionExpectVisible:
		if err := need("selector", spec.Selector); err != nil {
			return nil, err
		}
		return ExpectVisible{Selector: spec.Selector, Frame: spec.Frame}, nil

	case ActionUpload:
		if err := need("selector", spec.Selector); err != nil {
			return nil, err
		}
		paths := spec.Paths
		if spec.Path != "" {
			paths = append([]string{spec.Path}, paths...)
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("%w: action %q requires path or paths", ErrConfig, kind)
		}
		return Upload{Selector: spec.Selector, Paths: paths, Frame: spec.Frame}, nil

	case ActionWaitForNetworkIdle:
		return WaitForNetworkIdle{Timeout: spec.Timeout}, nil

	case ActionWaitForResponse:
		pattern := spec.Pattern
		if pattern == "" {
			pattern = spec.URL
		}
		if err := need("pattern", pattern); err != nil {
			return nil, err
		}
		return WaitForResponse{Pattern: pattern, Timeout: spec.Timeout}, nil

	case ActionSwitchPage:
		return SwitchPage{Index: spec.Index}, nil

	case ActionNewPage:
		return NewPage{}, nil

	case ActionSetLocalStorage:
		if err := need("key", spec.Key); err != nil {
			return nil, err
		}
		return SetLocalStorage{Key: spec.Key, Value: spec.Value}, nil

	case ActionClearLocalStorage:
		return ClearLocalStorage{}, nil

	case ActionHandleDialog:
		accept := true
		if spec.Accept != nil {
			accept = *spec.Accept
		}
		return HandleDialog{Accept: accept, PromptText: spec.Text}, nil

	case ActionScreenshot:
		if err := need("path", spec.Path); err != nil {
			return nil, err
		}
		return Screenshot{Path: spec.Path, FullPage: spec.FullPage}, nil

	case "":
		return nil, fmt.Errorf("%w: step %q has no action", ErrConfig, spec.Name)

	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrConfig, spec.Action)
	}
}
