package wizard

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/terminal"
)

// UI defines the prompt methods the install flow needs.
type UI interface {
	Select(title string, options []string, current *string) error
	Confirm(title string, value *bool) error
	Input(title string, hint string, value *string, validate func(string) error) error
	SecretInput(title string, hint string, value *string) error
	Note(title string, body string) error
}

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct {
	isTerminal func() bool
	ctrlCAbort bool // formFilter sets this during a run; ask clears it first
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI creates a HuhUI backed by the real terminal check.
func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: terminal.IsInteractive}
}

func (ui *HuhUI) interactive() bool {
	if ui.isTerminal != nil {
		return ui.isTerminal()
	}
	return terminal.IsInteractive()
}

// ask renders field as a one-field form and classifies how it ended:
// Esc becomes errBack, Ctrl+C becomes ErrCancelled, anything else passes
// through.
func (ui *HuhUI) ask(field huh.Field) error {
	if !ui.interactive() {
		return errors.New(messages.WizardRequiresTerminal)
	}

	ui.ctrlCAbort = false
	form := huh.NewForm(huh.NewGroup(newHintField(field)))
	form.WithKeyMap(wizardKeyMap())
	form.WithProgramOptions(tea.WithOutput(os.Stderr), tea.WithReportFocus(), tea.WithFilter(ui.formFilter()))

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		if ui.ctrlCAbort {
			return ErrCancelled
		}
		return errBack
	}
	return err
}

// wizardKeyMap routes both Esc and Ctrl+C to the form-level Quit binding;
// formFilter records which of the two fired so ask can tell back from exit.
// The per-field Prev and Next bindings can never fire (Quit intercepts both
// keys first) and exist only to keep "esc back" and "ctrl+c exit" in the
// help bar.
func wizardKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))

	back := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	quit := key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "exit"))
	km.Select.Prev, km.Select.Next = back, quit
	km.Confirm.Prev, km.Confirm.Next = back, quit
	km.Input.Prev, km.Input.Next = back, quit
	km.Note.Prev, km.Note.Next = back, quit

	// Filter mode would swallow the Esc that backs out of the driver list.
	km.Select.Filter.SetEnabled(false)
	km.Select.SetFilter.SetEnabled(false)
	km.Select.ClearFilter.SetEnabled(false)

	return km
}

// hintField keeps the Prev and Next help entries visible. huh disables Prev
// on a form's first field and Next on its last whenever it assigns
// positions, and every mason prompt is a one-field form, so without the
// wrapper both hints would vanish.
type hintField struct {
	huh.Field
	km *huh.KeyMap
}

func newHintField(field huh.Field) huh.Field {
	return &hintField{Field: field, km: wizardKeyMap()}
}

// Update keeps the wrapper in the group's field list across delegation.
func (h *hintField) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	inner, cmd := h.Field.Update(msg)
	if field, ok := inner.(huh.Field); ok {
		h.Field = field
	}
	return h, cmd
}

// WithPosition lets huh record the positional state, then re-applies the
// keymap to undo the hint bindings it just disabled.
func (h *hintField) WithPosition(p huh.FieldPosition) huh.Field {
	h.Field.WithPosition(p)
	h.WithKeyMap(h.km)
	return h
}

// formFilter tags Ctrl+C aborts and converts InterruptMsg to QuitMsg so
// bubbletea shuts the renderer down cleanly. In raw mode Ctrl+C arrives as
// a key event ahead of huh's interrupt, so the flag is set by the time the
// abort lands; Esc never sets it.
func (ui *HuhUI) formFilter() func(tea.Model, tea.Msg) tea.Msg {
	return func(_ tea.Model, msg tea.Msg) tea.Msg {
		switch m := msg.(type) {
		case tea.KeyMsg:
			if m.Type == tea.KeyCtrlC {
				ui.ctrlCAbort = true
			}
		case tea.InterruptMsg:
			return tea.QuitMsg{}
		}
		return msg
	}
}

// Select renders a single-choice prompt.
func (ui *HuhUI) Select(title string, options []string, current *string) error {
	choices := make([]huh.Option[string], len(options))
	for i, c := range options {
		choices[i] = huh.NewOption(c, c)
	}
	return ui.ask(huh.NewSelect[string]().Title(title).Options(choices...).Value(current))
}

// Confirm renders a yes/no prompt.
func (ui *HuhUI) Confirm(title string, value *bool) error {
	return ui.ask(huh.NewConfirm().Title(title).Value(value))
}

// Input renders a text prompt. validate may be nil.
func (ui *HuhUI) Input(title string, hint string, value *string, validate func(string) error) error {
	field := huh.NewInput().Title(title).Description(hint).Value(value)
	if validate != nil {
		field = field.Validate(validate)
	}
	return ui.ask(field)
}

// SecretInput renders a masked input prompt.
func (ui *HuhUI) SecretInput(title string, hint string, value *string) error {
	return ui.ask(huh.NewInput().Title(title).Description(hint).Value(value).EchoMode(huh.EchoModePassword))
}

// Note renders an informational note screen.
func (ui *HuhUI) Note(title string, body string) error {
	return ui.ask(huh.NewNote().Title(title).Description(body))
}
