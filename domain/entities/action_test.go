package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	no := false

	tests := []struct {
		name string
		spec StepSpec
		want Action
	}{
		{"navigate", StepSpec{Action: "navigate", URL: "/login"}, Navigate{URL: "/login"}},
		{"case insensitive", StepSpec{Action: " Click ", Selector: "@submit"}, Click{Selector: "@submit"}},
		{"fill allows empty text", StepSpec{Action: "fill", Selector: "#q"}, Fill{Selector: "#q"}},
		{"select", StepSpec{Action: "select", Selector: "#country", Value: "DE"}, Select{Selector: "#country", Value: "DE"}},
		{"type", StepSpec{Action: "type", Selector: "#q", Text: "go", Delay: 20 * time.Millisecond}, TypeText{Selector: "#q", Text: "go", Delay: 20 * time.Millisecond}},
		{"get_attribute", StepSpec{Action: "get_attribute", Selector: "a", Attribute: "href"}, GetAttribute{Selector: "a", Name: "href"}},
		{"upload merges path and paths", StepSpec{Action: "upload", Selector: "#f", Path: "a.txt", Paths: []string{"b.txt"}}, Upload{Selector: "#f", Paths: []string{"a.txt", "b.txt"}}},
		{"wait_for_response falls back to url", StepSpec{Action: "wait_for_response", URL: "**/api"}, WaitForResponse{Pattern: "**/api"}},
		{"switch_page", StepSpec{Action: "switch_page", Index: 1}, SwitchPage{Index: 1}},
		{"handle_dialog accepts by default", StepSpec{Action: "handle_dialog", Text: "yes"}, HandleDialog{Accept: true, PromptText: "yes"}},
		{"handle_dialog dismiss", StepSpec{Action: "handle_dialog", Accept: &no}, HandleDialog{}},
		{"click inside frame", StepSpec{Action: "click", Selector: "#pay", Frame: "@checkout_frame"}, Click{Selector: "#pay", Frame: "@checkout_frame"}},
		{"upload inside frame", StepSpec{Action: "upload", Selector: "#f", Path: "a.txt", Frame: "iframe"}, Upload{Selector: "#f", Paths: []string{"a.txt"}, Frame: "iframe"}},
		{"expect_visible inside frame", StepSpec{Action: "expect_visible", Selector: "h2", Frame: "iframe"}, ExpectVisible{Selector: "h2", Frame: "iframe"}},
		{"screenshot", StepSpec{Action: "screenshot", Path: "a.png", FullPage: true}, Screenshot{Path: "a.png", FullPage: true}},
		{"clear_local_storage", StepSpec{Action: "clear_local_storage"}, ClearLocalStorage{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Type(), got.Type())
		})
	}
}

func TestParseActionErrors(t *testing.T) {
	tests := []struct {
		name string
		spec StepSpec
		want string
	}{
		{"empty", StepSpec{Name: "nothing"}, `step "nothing" has no action`},
		{"unknown", StepSpec{Action: "teleport"}, `unknown action "teleport"`},
		{"click without selector", StepSpec{Action: "click"}, `action "click" requires selector`},
		{"select without value", StepSpec{Action: "select", Selector: "#a"}, `action "select" requires value`},
		{"upload without files", StepSpec{Action: "upload", Selector: "#a"}, "requires path or paths"},
		{"storage without key", StepSpec{Action: "set_local_storage", Value: "v"}, "requires key"},
		{"navigate without url", StepSpec{Action: "navigate"}, "requires url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAction(tt.spec)
			assert.ErrorIs(t, err, ErrConfig)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
