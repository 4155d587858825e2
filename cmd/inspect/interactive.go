package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuzamesan3/surrealdb-ffi-codec/boundary"
	"github.com/yuzamesan3/surrealdb-ffi-codec/envelope"
	"github.com/yuzamesan3/surrealdb-ffi-codec/executor"
	"github.com/yuzamesan3/surrealdb-ffi-codec/payload"
	"github.com/yuzamesan3/surrealdb-ffi-codec/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	boundary *boundary.Boundary
	result   string
	status   int32
	failed   bool
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

var operations = []envelope.Operation{
	envelope.OpSelect,
	envelope.OpCreate,
	envelope.OpUpdate,
	envelope.OpDelete,
}

func newInteractiveModel() *interactiveModel {
	mem := executor.NewMemory("inspect", "inspect")
	seedDemo(mem)
	return &interactiveModel{
		boundary: boundary.New(mem, boundary.WithExecContext(boundary.NewExecContext())),
		state:    stateSelectOp,
	}
}

type execResultMsg struct {
	result string
	status int32
	failed bool
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateInputArgs && msg.String() == "q" {
				break
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(operations)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.execute

			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.failed = false
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectOp
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.failed = false
			}
		}

	case execResultMsg:
		m.result = msg.result
		m.status = msg.status
		m.failed = msg.failed
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	fields := []struct{ name, hint string }{
		{"table", "table name"},
		{"id", "record id (optional)"},
		{"params", "k=v,k2=v2 (optional)"},
	}
	m.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.hint
		ti.Prompt = f.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// execute builds a request envelope from the input fields and runs it
// through the boundary.
func (m *interactiveModel) execute() tea.Msg {
	table := m.inputs[0].Value()
	id := m.inputs[1].Value()
	paramStr := m.inputs[2].Value()

	target := value.NewMap()
	if table != "" {
		target.Set("table", value.BinaryText(table))
	}
	if id != "" {
		target.Set("id", value.BinaryText(id))
	}
	if paramStr != "" {
		params := value.NewMap()
		for _, kv := range strings.Split(paramStr, ",") {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				params.Set(parts[0], convertParam(parts[1]))
			}
		}
		target.Set("params", value.BinaryMap(params))
	}

	data, err := payload.Marshal(value.BinaryMap(target))
	if err != nil {
		return execResultMsg{result: err.Error(), failed: true}
	}

	req, err := envelope.Encode(&envelope.Envelope{
		Operation:   operations[m.selected],
		PayloadKind: envelope.PayloadParams,
		Payload:     data,
	})
	if err != nil {
		return execResultMsg{result: err.Error(), failed: true}
	}

	resp := m.boundary.ExecuteRequest(req)
	defer m.boundary.FreeResponseBuffer(resp)

	env, err := envelope.Decode(resp.Bytes())
	if err != nil {
		return execResultMsg{result: err.Error(), failed: true}
	}

	if env.StatusCode != 0 {
		detail := "no error payload"
		if v, perr := payload.Unmarshal(env.ErrorPayload); perr == nil {
			detail = strings.TrimSpace(renderBinary(v, 0))
		}
		return execResultMsg{result: detail, status: env.StatusCode, failed: true}
	}

	v, err := payload.Unmarshal(env.Payload)
	if err != nil {
		return execResultMsg{result: err.Error(), failed: true}
	}
	return execResultMsg{result: strings.TrimSpace(renderBinary(v, 0))}
}

// convertParam guesses a scalar type from the raw input string.
func convertParam(s string) value.Binary {
	if s == "true" || s == "false" {
		return value.BinaryBool(s == "true")
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.BinaryInt(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.BinaryFloat(f)
	}
	return value.BinaryText(s)
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Envelope Inspector"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation:\n\n")
		for i, op := range operations {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + op.String()))
			} else {
				b.WriteString(cursor + opStyle.Render(op.String()))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter continue • q quit"))

	case stateInputArgs:
		b.WriteString(fmt.Sprintf("Operation %s\n\n", opStyle.Render(operations[m.selected].String())))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter execute • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", opStyle.Render(operations[m.selected].String())))
		if m.failed {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Status %d\n%s", m.status, m.result)))
		} else {
			b.WriteString(okStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
