// ABOUTME: Unit tests for the setup TUI wizard bubbletea model.
// ABOUTME: Uses synthetic tea.Msg values to test state machine transitions.
package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/newsdeck/internal/config"
)

func TestNewSetupModel_DefaultValues(t *testing.T) {
	m := NewSetupModel("", "")
	if m.step != StepAPIURL {
		t.Errorf("expected initial step StepAPIURL, got %d", m.step)
	}
	if m.inputs[0].Value() != "" {
		t.Error("expected empty API URL input for new config")
	}
}

func TestNewSetupModel_ExistingConfig(t *testing.T) {
	m := NewSetupModel("https://news.example.com/api", "secret-key")
	if m.inputs[0].Value() != "https://news.example.com/api" {
		t.Errorf("expected pre-filled API URL, got %q", m.inputs[0].Value())
	}
	if m.inputs[1].Value() != "secret-key" {
		t.Errorf("expected pre-filled API key, got %q", m.inputs[1].Value())
	}
}

func TestSetupModel_StepTransitions(t *testing.T) {
	m := NewSetupModel("", "")

	m.inputs[0].SetValue("https://news.example.com/api")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepAPIKey {
		t.Errorf("expected StepAPIKey after Enter on API URL, got %d", m.step)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Errorf("expected StepValidating after Enter on API key, got %d", m.step)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd (validation + spinner tick) when entering validation")
	}
}

func TestSetupModel_DefaultAPIURL(t *testing.T) {
	m := NewSetupModel("", "")

	// Enter on an empty API URL field uses the default
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.inputs[0].Value() != config.DefaultAPIURL {
		t.Errorf("expected default API URL %q, got %q", config.DefaultAPIURL, m.inputs[0].Value())
	}
	if m.step != StepAPIKey {
		t.Errorf("expected StepAPIKey after default URL applied, got %d", m.step)
	}
}

func TestSetupModel_EmptyAPIKeyAllowed(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepAPIKey
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Errorf("expected empty API key to proceed to validation, got %d", m.step)
	}
}

func TestSetupModel_ValidationSuccess(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepValidating

	updated, _ := m.Update(validationResultMsg{err: nil})
	m = updated.(SetupModel)
	if m.step != StepDone {
		t.Errorf("expected StepDone after successful validation, got %d", m.step)
	}
}

func TestSetupModel_ValidationFailure(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepValidating

	updated, _ := m.Update(validationResultMsg{err: fmt.Errorf("connection refused")})
	m = updated.(SetupModel)
	if m.step != StepFailed {
		t.Errorf("expected StepFailed after validation error, got %d", m.step)
	}
	if m.validationErr == nil {
		t.Error("expected validationErr to be set")
	}
}

func TestSetupModel_FailedRetry(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepFailed
	m.validationErr = fmt.Errorf("some error")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Errorf("expected StepValidating after retry, got %d", m.step)
	}
	if m.validationErr != nil {
		t.Error("expected validationErr cleared on retry")
	}
	if cmd == nil {
		t.Error("expected non-nil cmd on retry")
	}
}

func TestSetupModel_FailedSaveAnyway(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepFailed

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = updated.(SetupModel)
	if m.step != StepDone {
		t.Errorf("expected StepDone after save anyway, got %d", m.step)
	}
	if !m.ShouldSave() {
		t.Error("expected ShouldSave true after save anyway")
	}
}

func TestSetupModel_FailedQuit(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepFailed

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m2 := updated.(SetupModel)
	if cmd == nil {
		t.Error("expected quit cmd")
	}
	if !m2.quitting {
		t.Error("expected quitting to be true after 'q'")
	}
	if m2.ShouldSave() {
		t.Error("expected ShouldSave false after quit")
	}
}

func TestSetupModel_QuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEscape} {
		m := NewSetupModel("", "")
		updated, cmd := m.Update(tea.KeyMsg{Type: k})
		m = updated.(SetupModel)
		if cmd == nil {
			t.Errorf("expected quit cmd on %v", k)
		}
		if !m.quitting {
			t.Errorf("expected quitting to be true on %v", k)
		}
		if m.ShouldSave() {
			t.Errorf("expected ShouldSave false on %v", k)
		}
	}
}

func TestSetupModel_Result(t *testing.T) {
	m := NewSetupModel("", "")
	m.inputs[0].SetValue("https://news.example.com/api")
	m.inputs[1].SetValue("key-456")

	apiURL, apiKey := m.Result()
	if apiURL != "https://news.example.com/api" {
		t.Errorf("expected API URL from result, got %q", apiURL)
	}
	if apiKey != "key-456" {
		t.Errorf("expected API key from result, got %q", apiKey)
	}
}

func TestSetupModel_ViewContainsBrand(t *testing.T) {
	m := NewSetupModel("", "")
	if !strings.Contains(m.View(), "NEWSDECK") {
		t.Error("expected view to contain NEWSDECK branding")
	}
}

func TestSetupModel_ViewShowsCurrentStep(t *testing.T) {
	m := NewSetupModel("", "")

	m.step = StepAPIURL
	if !strings.Contains(m.View(), "Step 1 of 2") {
		t.Error("expected StepAPIURL view to show step 1")
	}

	m.step = StepAPIKey
	if !strings.Contains(m.View(), "API Key") {
		t.Error("expected StepAPIKey view to mention API Key")
	}

	m.step = StepValidating
	if !strings.Contains(m.View(), "Checking /health") {
		t.Error("expected StepValidating view to mention the health check")
	}

	m.step = StepDone
	if !strings.Contains(m.View(), "Connected") {
		t.Error("expected StepDone view to mention Connected")
	}
}

func TestSetupModel_ViewFailed(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepFailed
	m.validationErr = fmt.Errorf("timeout")
	view := m.View()
	for _, want := range []string{"Validation failed", "timeout", "[r]etry", "[s]ave anyway", "[q]uit"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected StepFailed view to contain %q", want)
		}
	}
}

func TestSetupModel_ViewFailedNilError(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepFailed
	view := m.View()
	if strings.Contains(view, "<nil>") {
		t.Error("expected nil error to be rendered gracefully, not as <nil>")
	}
	if !strings.Contains(view, "unknown error") {
		t.Error("expected nil error to show 'unknown error' fallback")
	}
}

func TestSetupModel_ViewMasksAPIKey(t *testing.T) {
	m := NewSetupModel("https://news.example.com/api", "hunter2")
	m.step = StepValidating
	view := m.View()
	if strings.Contains(view, "hunter2") {
		t.Error("expected API key to be masked while validating")
	}
}

func TestSetupModel_TrailingSlashNormalized(t *testing.T) {
	m := NewSetupModel("", "")
	m.inputs[0].SetValue("https://news.example.com/api//")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.inputs[0].Value() != "https://news.example.com/api" {
		t.Errorf("expected trailing slash stripped, got %q", m.inputs[0].Value())
	}
}

func TestSetupModel_CtrlCDuringValidation(t *testing.T) {
	cancelled := make(chan struct{})
	m := NewSetupModel("https://news.example.com/api", "key")
	m.validateFn = func(ctx context.Context, _, _ string) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}
	m.step = StepAPIKey

	updated, batchCmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Fatalf("expected StepValidating, got %d", m.step)
	}

	// batchMsg[0] is the validation cmd, batchMsg[1] is the spinner tick
	batchMsg := batchCmd().(tea.BatchMsg)
	done := make(chan tea.Msg)
	go func() {
		done <- batchMsg[0]()
	}()

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(SetupModel)
	if !m.quitting {
		t.Error("expected quitting to be true after Ctrl+C during validation")
	}

	<-done
	select {
	case <-cancelled:
	default:
		t.Error("expected validation context to be cancelled")
	}
}

func TestSetupModel_ValidationPassesCorrectArgs(t *testing.T) {
	var gotURL, gotKey string
	m := NewSetupModel("", "")
	m.validateFn = func(_ context.Context, apiURL, apiKey string) error {
		gotURL = apiURL
		gotKey = apiKey
		return nil
	}
	m.inputs[0].SetValue("https://news.example.com/api")
	m.inputs[1].SetValue("secret-abc")
	m.step = StepAPIKey

	_, batchCmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	batchMsg := batchCmd().(tea.BatchMsg)
	batchMsg[0]()

	if gotURL != "https://news.example.com/api" {
		t.Errorf("expected apiURL %q, got %q", "https://news.example.com/api", gotURL)
	}
	if gotKey != "secret-abc" {
		t.Errorf("expected apiKey %q, got %q", "secret-abc", gotKey)
	}
}

func TestSetupModel_FullFlowWithTeaProgram(t *testing.T) {
	m := NewSetupModel("https://news.example.com/api", "my-key")
	m.validateFn = func(_ context.Context, _, _ string) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}

	p := tea.NewProgram(m, tea.WithInput(nil), tea.WithoutRenderer())

	go func() {
		p.Send(tea.KeyMsg{Type: tea.KeyEnter}) // URL
		p.Send(tea.KeyMsg{Type: tea.KeyEnter}) // API Key -> validates -> done -> quit
	}()

	result, err := p.Run()
	if err != nil {
		t.Fatalf("tea.Program error: %v", err)
	}

	final := result.(SetupModel)
	if !final.ShouldSave() {
		t.Errorf("expected ShouldSave=true after successful validation, got false (step=%d, quitting=%v)", final.step, final.quitting)
	}
}
