package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qtermtikz/quantikz"
)

const defaultCircuitFile = "circuit.qasm"

// starterProgram is loaded when the edited file does not exist yet.
const starterProgram = `OPENQASM 3.0;
include "stdgates.inc";

qubit[3] q;
bit[3] c;

h q[0];
cx q[0], q[1];
c[0] = measure q[0];
if (c[0] == 1) x q[2];
`

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusEditor focus = iota
	focusPreview
	focusMenu
	focusInputParam
)

// Model represents the TUI application state.
type Model struct {
	path   string
	cfg    *Config
	opts   quantikz.Options
	editor textarea.Model
	focus  focus

	// result and preview hold the last successful translation; err is
	// the failure of the most recent one, if any.
	result  *quantikz.Result
	preview *Preview
	err     error
	lastSrc string

	cursorWire int
	cursorCol  int
	showTeX    bool
	width      int
	height     int
	statusMsg  string // transient status message (e.g. save confirmation)

	// Menu state
	menuCat    int
	menuItem   int
	paramInput string
}

func newModel(path, src string, cfg *Config, log *zap.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Write OpenQASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.SetValue(src)
	ta.Focus()

	m := Model{
		path:    path,
		cfg:     cfg,
		opts:    cfg.options(log),
		editor:  ta,
		focus:   focusEditor,
		preview: &Preview{},
		lastSrc: "\x00",
	}
	m.retranslate()
	return m
}

// retranslate translates the editor contents when they changed. A failed
// translation keeps the previous preview on screen.
func (m *Model) retranslate() {
	src := m.editor.Value()
	if src == m.lastSrc {
		return
	}
	m.lastSrc = src

	res, err := quantikz.TranslateSource(src, m.opts)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.result = res
	m.preview = NewPreview(res)
	m.clampCursor()
}

func (m *Model) clampCursor() {
	m.cursorWire = max(min(m.cursorWire, m.preview.NumQubits()-1), 0)
	m.cursorCol = max(min(m.cursorCol, m.preview.Width()-1), 0)
}

// texPath returns the diagram file saved next to the source.
func (m *Model) texPath() string {
	return strings.TrimSuffix(m.path, filepath.Ext(m.path)) + ".tex"
}

// save writes the editor contents and, when the source translates, the
// diagram.
func (m *Model) save() error {
	if err := os.WriteFile(m.path, []byte(m.editor.Value()), 0644); err != nil {
		return errors.Wrap(err, "save source")
	}
	if m.err != nil || m.result == nil {
		return errors.New("source saved; diagram not written, translation failed")
	}
	if err := os.WriteFile(m.texPath(), []byte(diagramText(m.result, m.cfg)), 0644); err != nil {
		return errors.Wrap(err, "save diagram")
	}
	return nil
}

// insert adds a statement on its own line at the editor cursor.
func (m *Model) insert(stmt string) {
	m.editor.InsertString(stmt + "\n")
	m.retranslate()
	m.statusMsg = "Inserted " + stmt
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		editorW := max(msg.Width/3-6, 20)
		m.editor.SetWidth(editorW)
		ctrlH := 6
		panelH := msg.Height - ctrlH - 4
		m.editor.SetHeight(max(panelH-8, 4))

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}
		if key == "ctrl+s" {
			if err := m.save(); err != nil {
				m.statusMsg = fmt.Sprintf("Save error: %v", err)
			} else {
				m.statusMsg = fmt.Sprintf("Saved %s and %s", m.path, m.texPath())
			}
			return m, nil
		}

		switch m.focus {
		case focusPreview:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusEditor
				cmds = append(cmds, m.editor.Focus())
			case "up", "k":
				if m.cursorWire > 0 {
					m.cursorWire--
				}
			case "down", "j":
				if m.cursorWire < m.preview.NumQubits()-1 {
					m.cursorWire++
				}
			case "left", "h":
				if m.cursorCol > 0 {
					m.cursorCol--
				}
			case "right", "l":
				if m.cursorCol < m.preview.Width()-1 {
					m.cursorCol++
				}
			case "home":
				m.cursorCol = 0
			case "end":
				m.cursorCol = max(m.preview.Width()-1, 0)
			case "t":
				m.showTeX = !m.showTeX
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusPreview
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				cat := snippetMenu[m.menuCat]
				if m.menuItem < len(cat.items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(snippetMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := snippetMenu[m.menuCat].items[m.menuItem]
				if item.needsParams() {
					m.paramInput = item.paramHint.example
					m.focus = focusInputParam
					break
				}
				m.insert(item.statement(""))
				m.focus = focusPreview
			}

		case focusInputParam:
			item := snippetMenu[m.menuCat].items[m.menuItem]
			switch key {
			case "esc":
				m.focus = focusMenu
				m.paramInput = ""
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				params, err := parseParams(m.paramInput, item.paramHint.count)
				if err != nil {
					m.statusMsg = fmt.Sprintf("Invalid parameters: %v", err)
					break
				}
				m.insert(item.statement(formatParams(params)))
				m.paramInput = ""
				m.focus = focusPreview
			default:
				for _, r := range msg.Runes {
					if paramInputRune(r) {
						m.paramInput += string(r)
					}
				}
			}

		case focusEditor:
			switch key {
			case "tab":
				m.focus = focusPreview
				m.editor.Blur()
			default:
				var cmd tea.Cmd
				m.editor, cmd = m.editor.Update(msg)
				cmds = append(cmds, cmd)
				m.retranslate()
			}
		}

	default:
		if m.focus == focusEditor {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	editorWidth := m.width / 3
	previewWidth := m.width - editorWidth - 4
	controlsHeight := 6
	panelHeight := max(m.height-controlsHeight-2, 6)

	previewPanel := m.renderPreviewPanel(previewWidth, panelHeight)
	editorPanel := m.renderQASMPanel(editorWidth, panelHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, previewPanel, editorPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInputParam:
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	}
	return frame
}

// renderParamInput renders the parameter prompt with a live preview of the
// diagram label.
func (m Model) renderParamInput() string {
	item := snippetMenu[m.menuCat].items[m.menuItem]

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Parameters for " + item.name))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Value: %s_", m.paramInput)
	sb.WriteString("\n")

	params, err := parseParams(m.paramInput, item.paramHint.count)
	if err != nil {
		sb.WriteString(errorStyle.Render(err.Error()))
	} else {
		sb.WriteString(gateStyle.Render(previewParams(params)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%d expected, e.g. %s", item.paramHint.count, item.paramHint.example)))
	if m.statusMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(activeGateStyle.Render(m.statusMsg))
	}
	return menuBorderStyle.Render(sb.String())
}
