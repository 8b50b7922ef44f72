package commands

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/agiangrant/ctdcore"
	"github.com/agiangrant/ctdcore/retained"
)

// One terminal cell stands for an 8x16 pixel area.
const (
	cellWidth  = 8
	cellHeight = 16

	eventLogSize = 6
)

var (
	hoverStyle    = lipgloss.NewStyle().Underline(true)
	pressedStyle  = lipgloss.NewStyle().Reverse(true)
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	disabledStyle = lipgloss.NewStyle().Faint(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newDemoCommand(global *globalOptions) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Host a small form in the terminal",
		Long: `Host a form built from every widget kind inside the terminal. Mouse and
keyboard input is translated into engine input frames, one cell standing
for an 8x16 pixel area.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("demo needs an interactive terminal")
			}
			cfg, _, err := global.load()
			if err != nil {
				return err
			}
			var opts []ctdcore.EngineOption
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				opts = append(opts, ctdcore.WithLogWriter(f))
			}
			e, err := ctdcore.NewEngine(cfg, opts...)
			if err != nil {
				return err
			}
			defer e.Close()

			p := tea.NewProgram(newDemoModel(e),
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(cmd.Context()),
			)
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write engine logs to this file")
	return cmd
}

// cellRect converts a cell position and width into pixel bounds.
func cellRect(col, row, width int) retained.Bounds {
	return retained.Bounds{
		X:      float32(col * cellWidth),
		Y:      float32(row * cellHeight),
		Width:  float32(width * cellWidth),
		Height: cellHeight,
	}
}

type demoModel struct {
	engine *ctdcore.Engine
	x, y   float32
	down   bool
	status string
	log    []string
}

func newDemoModel(e *ctdcore.Engine) *demoModel {
	m := &demoModel{engine: e, status: "Fill in the form and press Submit."}
	m.frame(retained.InputFrame{CursorX: -1, CursorY: -1})
	return m
}

func (m *demoModel) build(s *retained.State) {
	s.UpsertLabel("title", retained.LabelSpec{Rect: cellRect(2, 0, 40), Text: "ctd demo"})
	s.UpsertCheckbox("subscribe", retained.CheckboxSpec{Rect: cellRect(2, 2, 16), Text: "Subscribe"})
	s.UpsertRadioButton("small", retained.RadioSpec{Rect: cellRect(2, 4, 10), Text: "Small", Group: "size", Selected: true})
	s.UpsertRadioButton("large", retained.RadioSpec{Rect: cellRect(14, 4, 10), Text: "Large", Group: "size"})
	s.UpsertSlider("volume", retained.SliderSpec{Rect: cellRect(2, 6, 24), Max: 100, Value: 40, Step: 5})
	s.UpsertTextBox("name", retained.TextBoxSpec{
		Rect:        cellRect(2, 8, 30),
		Placeholder: "Your name",
		OverflowX:   retained.OverflowAuto,
	})
	sub := s.Response("subscribe")
	s.UpsertButton("submit", retained.ButtonSpec{Rect: cellRect(2, 10, 10), Text: "Submit"})
	s.UpsertButton("reset", retained.ButtonSpec{Rect: cellRect(14, 10, 9), Text: "Reset", Disabled: !sub.Checked && s.Response("name").Text == ""})
	s.UpsertComboBox("color", retained.ComboBoxSpec{Rect: cellRect(2, 12, 16), Items: []string{"Red", "Green", "Blue"}})
	s.UpsertLabel("status", retained.LabelSpec{Rect: cellRect(2, 17, 60), Text: m.status})

	if _, ok := retained.Take[retained.ButtonClicked](s.Events(), "reset"); ok {
		s.SetChecked("subscribe", false)
		s.SetRadioSelected("small")
		s.SetSliderValue("volume", 40)
		s.SetText("name", "")
		s.SetComboSelected("color", 0)
		m.status = "Form reset."
		m.record("reset")
	}
	if _, ok := retained.Take[retained.ButtonClicked](s.Events(), "submit"); ok {
		m.status = fmt.Sprintf("Submitted: name=%q color=%s volume=%g subscribed=%t",
			s.Response("name").Text,
			s.Response("color").SelectedText,
			s.Response("volume").Value,
			sub.Checked)
		m.record("submit")
	}
}

func (m *demoModel) record(line string) {
	m.log = append(m.log, line)
	if len(m.log) > eventLogSize {
		m.log = m.log[len(m.log)-eventLogSize:]
	}
}

func (m *demoModel) frame(in retained.InputFrame) {
	res := m.engine.Frame(in, m.build)
	for _, ev := range res.Events {
		m.record(fmt.Sprintf("%s %s", retained.EventName(ev), ev.WidgetID()))
	}
}

func (m *demoModel) Init() tea.Cmd { return nil }

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.frame(m.mouseInput(msg))
	case tea.KeyMsg:
		in, quit := m.keyInput(msg)
		if quit {
			return m, tea.Quit
		}
		m.frame(in)
	}
	return m, nil
}

// mouseInput maps a terminal mouse event to the center of its cell.
func (m *demoModel) mouseInput(msg tea.MouseMsg) retained.InputFrame {
	m.x = float32(msg.X*cellWidth + cellWidth/2)
	m.y = float32(msg.Y*cellHeight + cellHeight/2)
	wasDown := m.down

	var scrollX, scrollY float32
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		scrollY = -cellHeight
	case tea.MouseButtonWheelDown:
		scrollY = cellHeight
	case tea.MouseButtonWheelLeft:
		scrollX = -cellWidth
	case tea.MouseButtonWheelRight:
		scrollX = cellWidth
	case tea.MouseButtonLeft:
		switch msg.Action {
		case tea.MouseActionPress:
			m.down = true
		case tea.MouseActionRelease:
			m.down = false
		}
	default:
		if msg.Action == tea.MouseActionRelease {
			m.down = false
		}
	}
	// Shift+wheel scrolls horizontally.
	if msg.Shift && scrollY != 0 {
		scrollX, scrollY = scrollY, 0
	}

	in := retained.PointerInput(m.x, m.y, wasDown, m.down)
	in.ScrollX, in.ScrollY = scrollX, scrollY
	return in
}

func (m *demoModel) keyInput(msg tea.KeyMsg) (retained.InputFrame, bool) {
	in := retained.PointerInput(m.x, m.y, m.down, m.down)
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return in, true
	case tea.KeyRunes:
		in.Text = string(msg.Runes)
	case tea.KeySpace:
		in.Text = " "
	case tea.KeyBackspace:
		in.Keys = retained.Keys(retained.KeyBackspace)
	case tea.KeyDelete:
		in.Keys = retained.Keys(retained.KeyDelete)
	case tea.KeyEnter:
		in.Keys = retained.Keys(retained.KeyEnter)
	case tea.KeyLeft:
		in.Keys = retained.Keys(retained.KeyLeft)
	case tea.KeyRight:
		in.Keys = retained.Keys(retained.KeyRight)
	case tea.KeyUp:
		in.Keys = retained.Keys(retained.KeyUp)
	case tea.KeyDown:
		in.Keys = retained.Keys(retained.KeyDown)
	case tea.KeyCtrlY:
		in.Copy = true
	case tea.KeyCtrlV:
		in.Paste = true
	}
	return in, false
}

type segment struct {
	col  int
	text string
}

func (m *demoModel) View() string {
	s := m.engine.State()
	rows := map[int][]segment{}
	last := 0
	put := func(col, row int, text string) {
		rows[row] = append(rows[row], segment{col: col, text: text})
		last = max(last, row)
	}

	for _, id := range s.Order() {
		n, ok := s.Node(id)
		if !ok {
			continue
		}
		b := n.Bounds()
		col, row := int(b.X)/cellWidth, int(b.Y)/cellHeight
		width := int(b.Width) / cellWidth
		put(col, row, renderNode(n, width))
		if c, ok := n.(*retained.ComboBox); ok && c.IsOpen {
			for i, item := range c.Items {
				text := runewidth.FillRight(" "+item, width)
				if i == c.HoveredItem {
					text = pressedStyle.Render(text)
				}
				put(col, row+i+1, text)
			}
		}
	}

	var b strings.Builder
	for row := 0; row <= last; row++ {
		segs := rows[row]
		slices.SortStableFunc(segs, func(a, b segment) int { return a.col - b.col })
		x := 0
		for _, seg := range segs {
			if seg.col > x {
				b.WriteString(strings.Repeat(" ", seg.col-x))
				x = seg.col
			}
			b.WriteString(seg.text)
			x += lipgloss.Width(seg.text)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("click, type, wheel to scroll | ctrl+y copy, ctrl+v paste | esc quit"))
	b.WriteString("\n")
	for _, line := range m.log {
		b.WriteString(helpStyle.Render("  " + line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderNode draws one widget into a cell-wide string.
func renderNode(n retained.Node, width int) string {
	switch n := n.(type) {
	case *retained.Button:
		text := runewidth.FillRight("["+centerText(n.DisplayText(), width-2)+"]", width)
		return interactionStyle(n.Interaction).Render(text)
	case *retained.Checkbox:
		mark := "[ ]"
		if n.Checked {
			mark = "[x]"
		}
		return interactionStyle(n.Interaction).Render(runewidth.Truncate(mark+" "+n.Text, width, ""))
	case *retained.RadioButton:
		mark := "( )"
		if n.Selected {
			mark = "(*)"
		}
		return interactionStyle(n.Interaction).Render(runewidth.Truncate(mark+" "+n.Text, width, ""))
	case *retained.Slider:
		track := max(width-2, 1)
		pos := int(n.Ratio()*float32(track-1) + 0.5)
		bar := strings.Repeat("-", pos) + "o" + strings.Repeat("-", track-1-pos)
		return interactionStyle(n.Interaction).Render("["+bar+"]") + fmt.Sprintf(" %g", n.Value)
	case *retained.TextBox:
		inner := max(width-2, 1)
		if n.Text == "" && !n.Focused {
			return "[" + helpStyle.Render(runewidth.FillRight(runewidth.Truncate(n.Placeholder, inner, ""), inner)) + "]"
		}
		text := visibleText(n.Text, n.Caret, inner, n.Focused)
		style := interactionStyle(n.Interaction)
		if n.Focused {
			style = focusStyle
		}
		return style.Render("[" + runewidth.FillRight(text, inner) + "]")
	case *retained.ComboBox:
		text := runewidth.FillRight(" "+n.SelectedText(), width-2)
		return interactionStyle(n.Interaction).Render(runewidth.Truncate(text, width-2, "") + " v")
	case *retained.Label:
		return runewidth.Truncate(n.Text, max(width, 1), "...")
	case *retained.Container:
		return ""
	default:
		return ""
	}
}

func interactionStyle(in retained.Interaction) lipgloss.Style {
	switch {
	case !in.Enabled:
		return disabledStyle
	case in.Pressed:
		return pressedStyle
	case in.Hovered:
		return hoverStyle
	default:
		return lipgloss.NewStyle()
	}
}

func centerText(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// visibleText returns the window of text that keeps the caret in view,
// with a caret marker inserted when focused.
func visibleText(text string, caret, width int, focused bool) string {
	runes := []rune(text)
	caret = min(max(caret, 0), len(runes))
	if focused {
		runes = slices.Insert(runes, caret, '|')
		caret++
	}
	start := 0
	for runewidth.StringWidth(string(runes[start:caret])) > width {
		start++
	}
	return runewidth.Truncate(string(runes[start:]), width, "")
}
