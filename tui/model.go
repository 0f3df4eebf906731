// Package tui is the terminal form: sixteen numeric fields and a predict action.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"drybean/ml"
	"drybean/presenter"
)

// Heading shown above the fields.
const (
	Title = "🌱 Dry Bean Type Classification"
	Intro = "Enter physical measurements of a dry bean to predict its class."
)

// Options configures the form.
type Options struct {
	// GlamourStyle is a glamour standard style name. Empty selects by terminal background.
	GlamourStyle string
	WordWrap     int
}

// Model is the bubbletea model of the form. Its values are local to the model, so every
// program run is its own session.
type Model struct {
	predictor ml.Predictor
	renderer  *glamour.TermRenderer
	styles    Styles

	inputs []textinput.Model
	focus  int

	result string
	err    error
}

// New builds the form with every field at its default.
func New(predictor ml.Predictor, opts Options) (Model, error) {
	if predictor == nil {
		return Model{}, errors.New("tui: nil predictor")
	}
	if opts.WordWrap <= 0 {
		opts.WordWrap = 80
	}
	style := glamour.WithAutoStyle()
	if opts.GlamourStyle != "" {
		style = glamour.WithStandardStyle(opts.GlamourStyle)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(opts.WordWrap))
	if err != nil {
		return Model{}, fmt.Errorf("tui: create renderer: %w", err)
	}

	m := Model{
		predictor: predictor,
		renderer:  renderer,
		styles:    DefaultStyles(),
	}
	for _, f := range ml.Features() {
		in := textinput.New()
		in.Placeholder = strconv.FormatFloat(ml.FeatureDefault, 'f', -1, 64)
		in.CharLimit = 24
		in.Width = 20
		in.Prompt = ""
		in.Validate = validateField(f.Label)
		m.inputs = append(m.inputs, in)
	}
	m.inputs[0].Focus()
	return m, nil
}

func validateField(label string) textinput.ValidateFunc {
	return func(s string) error {
		_, err := parseField(label, s)
		return err
	}
}

// parseField reads one field. Empty input takes the default.
func parseField(label, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ml.FeatureDefault, nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ml.ErrInvalidInput, label)
	}
	if value < ml.FeatureMin {
		return 0, fmt.Errorf("%w: %s must be >= %g", ml.ErrInvalidInput, label, ml.FeatureMin)
	}
	return value, nil
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "enter":
			m.submit()
			return m, nil
		case "ctrl+r":
			m.reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	i = (i%n + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// Vector collects the current field values in schema order.
func (m Model) Vector() (ml.FeatureVector, error) {
	var v ml.FeatureVector
	features := ml.Features()
	for i, in := range m.inputs {
		value, err := parseField(features[i].Label, in.Value())
		if err != nil {
			return v, err
		}
		v[i] = value
	}
	return v, v.Validate()
}

func (m *Model) submit() {
	m.result, m.err = "", nil
	v, err := m.Vector()
	if err != nil {
		m.err = err
		return
	}
	p, err := m.predictor.Predict(v)
	if err != nil {
		m.err = err
		return
	}
	out, err := m.renderer.Render(presenter.Markdown(p.Label))
	if err != nil {
		m.err = err
		return
	}
	m.result = strings.TrimSpace(out)
}

func (m *Model) reset() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.result, m.err = "", nil
	m.setFocus(0)
}

// Result is the rendered message of the last prediction, if any.
func (m Model) Result() string {
	return m.result
}

// Err is the error of the last submission, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(Title))
	b.WriteString("\n")
	b.WriteString(m.styles.Intro.Render(Intro))
	b.WriteString("\n\n")

	for i, f := range ml.Features() {
		label := m.styles.Label
		if i == m.focus {
			label = m.styles.Focused
		}
		b.WriteString(label.Render(f.Label))
		b.WriteString(m.inputs[i].View())
		if err := m.inputs[i].Err; err != nil {
			b.WriteString(" ")
			b.WriteString(m.styles.Error.Render(err.Error()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Button.Render("Predict Bean Type"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if m.result != "" {
		b.WriteString("\n")
		b.WriteString(m.result)
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("tab/shift+tab: move • enter: predict • ctrl+r: reset • esc: quit"))
	return b.String()
}

// Run starts the form on the terminal and blocks until the user quits.
func Run(predictor ml.Predictor, opts Options) error {
	m, err := New(predictor, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}
