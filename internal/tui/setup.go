// ABOUTME: Interactive TUI wizard for configuring identity and storage.
// ABOUTME: 4-step bubbletea model collecting display name, avatar, backend, and DSN.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/wupy/internal/config"
	"github.com/2389-research/wupy/internal/storage"
)

// Step represents the current wizard step.
type Step int

const (
	StepName Step = iota
	StepAvatar
	StepBackend
	StepDSN
	StepValidating
	StepDone
	StepFailed
)

const inputCount = 4

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for storage validation.
type ValidateFn func(ctx context.Context, backend, dsn string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// It must be a pointer field so value-receiver methods see the same cancel func.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [inputCount]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	inputErr      string
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(name, avatar, backend, dsn string) SetupModel {
	nameInput := textinput.New()
	nameInput.Placeholder = config.DefaultUserName
	nameInput.Focus()
	nameInput.Width = 50
	nameInput.SetValue(name)

	avatarInput := textinput.New()
	avatarInput.Placeholder = "https://example.com/me.jpg"
	avatarInput.Width = 50
	avatarInput.SetValue(avatar)

	backendInput := textinput.New()
	backendInput.Placeholder = storage.BackendFile
	backendInput.Width = 50
	backendInput.SetValue(backend)

	dsnInput := textinput.New()
	dsnInput.Placeholder = "path or URL (optional for file, sqlite, redis)"
	dsnInput.Width = 50
	dsnInput.SetValue(dsn)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepName,
		inputs:     [inputCount]textinput.Model{nameInput, avatarInput, backendInput, dsnInput},
		spinner:    s,
		validateFn: ValidateStorage,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepName, StepAvatar, StepBackend, StepDSN:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		idx := int(m.step)
		m.inputErr = ""

		switch m.step {
		case StepName:
			val := strings.TrimSpace(m.inputs[0].Value())
			if val == "" {
				val = config.DefaultUserName
			}
			m.inputs[0].SetValue(val)
		case StepAvatar:
			m.inputs[1].SetValue(strings.TrimSpace(m.inputs[1].Value()))
		case StepBackend:
			val := strings.ToLower(strings.TrimSpace(m.inputs[2].Value()))
			if val == "" {
				val = storage.BackendFile
			}
			if !storage.IsValidBackend(val) {
				m.inputErr = fmt.Sprintf("unknown backend %q (want one of %s)", val, strings.Join(storage.Backends, ", "))
				return m, nil
			}
			m.inputs[2].SetValue(val)
		case StepDSN:
			val := strings.TrimSpace(m.inputs[3].Value())
			if val == "" && m.inputs[2].Value() == storage.BackendPostgres {
				m.inputErr = "postgres needs a connection URL"
				return m, nil
			}
			m.inputs[3].SetValue(val)
		}

		m.inputs[idx].Blur()

		if m.step == StepDSN {
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
		m.step++
		m.inputs[int(m.step)].Focus()
		return m, textinput.Blink
	}

	// Forward to the active input
	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	backend := m.inputs[2].Value()
	dsn := m.inputs[3].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, backend, dsn)}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   wupy"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Choose who you are and where your feed is kept.\n\n")

	summary := func(upTo Step) {
		labels := [inputCount]string{"Name", "Avatar", "Backend", "DSN"}
		for i := 0; i < int(upTo) && i < inputCount; i++ {
			val := m.inputs[i].Value()
			if val == "" {
				val = "(default)"
			}
			b.WriteString(fmt.Sprintf("  %s: %s\n", labels[i], val))
		}
		if upTo > 0 {
			b.WriteString("\n")
		}
	}

	switch m.step {
	case StepName:
		b.WriteString(stepStyle.Render("Step 1 of 4: Display name"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepAvatar:
		summary(StepAvatar)
		b.WriteString(stepStyle.Render("Step 2 of 4: Avatar URL"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(optional)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepBackend:
		summary(StepBackend)
		b.WriteString(stepStyle.Render("Step 3 of 4: Storage backend"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(strings.Join(storage.Backends, " | ")))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepDSN:
		summary(StepDSN)
		b.WriteString(stepStyle.Render("Step 4 of 4: Storage DSN"))
		b.WriteString("\n")
		b.WriteString(m.inputs[3].View())
		b.WriteString("\n")

	case StepValidating:
		summary(StepValidating)
		b.WriteString(m.spinner.View())
		b.WriteString(" Checking storage...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Storage ready!"))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	if m.inputErr != "" {
		b.WriteString(errorStyle.Render(m.inputErr))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() (name, avatar, backend, dsn string) {
	return m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value(), m.inputs[3].Value()
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
