package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"anarcdr/internal/cdr"
	"anarcdr/internal/report"
)

// Colors
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	labelStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	heavyStyle   = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	lightStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	unknownStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// Record is one identifier from results.json with its CDRs.
type Record struct {
	ID   string
	CDRs map[string]string
}

// Chain returns the chain label implied by the identifier, or "?".
func (r Record) Chain() string {
	if c, ok := cdr.ChainOf(r.ID); ok {
		return c
	}
	if r.ID == cdr.Heavy || r.ID == cdr.Light {
		return r.ID
	}
	return "?"
}

type listItem struct {
	record Record
}

func (i listItem) FilterValue() string { return i.record.ID }

func (i listItem) Title() string { return i.record.ID }

func (i listItem) Description() string {
	var chain string
	switch i.record.Chain() {
	case cdr.Heavy:
		chain = heavyStyle.Render("heavy")
	case cdr.Light:
		chain = lightStyle.Render("light")
	default:
		chain = unknownStyle.Render("unknown")
	}
	numbered, total := coverage(i.record)
	return fmt.Sprintf("Chain: %s    Numbered: %d/%d", chain, numbered, total)
}

// coverage counts non-gap residues across all CDRs of r.
func coverage(r Record) (numbered, total int) {
	for _, name := range cdr.Names() {
		seq := r.CDRs[name]
		total += len(seq)
		numbered += len(seq) - strings.Count(seq, string(cdr.Gap))
	}
	return numbered, total
}

type mode int

const (
	modeSequences mode = iota
	modeUngapped
	modeCoverage
)

func (m mode) String() string {
	switch m {
	case modeSequences:
		return "Sequences"
	case modeUngapped:
		return "Ungapped"
	case modeCoverage:
		return "Coverage"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	records       []Record
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	selectedIndex int
}

func initialModel(res cdr.Result) model {
	records := make([]Record, 0, len(res))
	for _, id := range res.IDs() {
		records = append(records, Record{ID: id, CDRs: res[id]})
	}

	items := make([]list.Item, len(records))
	for i, record := range records {
		items[i] = listItem{record: record}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Antibody CDRs"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{
		list:        l,
		records:     records,
		currentMode: modeSequences,
	}
}

func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % 3
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// left panel takes 1/3 of width
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "tab":
			return m.cycleMode(), nil
		case "1":
			m.currentMode = modeSequences
			return m, nil
		case "2":
			m.currentMode = modeUngapped
			return m, nil
		case "3":
			m.currentMode = modeCoverage
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLeftPanel(), m.renderRightPanel())
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m model) renderLeftPanel() string {
	return containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())
}

func (m model) renderRightPanel() string {
	rightWidth := (m.width * 2) / 3
	panel := containerStyle.Width(rightWidth - 2).Height(m.height - 4)

	if len(m.records) == 0 {
		return panel.Render("No records available")
	}
	selected := m.list.SelectedItem()
	if selected == nil {
		return panel.Render("No item selected")
	}
	rec := selected.(listItem).record

	header := titleStyle.Render(rec.ID)
	lines := append([]string{header, ""}, m.buildRightLines(rec)...)
	return panel.Render(strings.Join(lines, "\n"))
}

// buildRightLines renders the selected record for the current mode, one CDR
// per block, wrapping sequences to the right panel's width.
func (m model) buildRightLines(rec Record) []string {
	wrap := m.width*2/3 - 12
	if wrap < 10 {
		wrap = 10
	}
	var lines []string
	for _, r := range cdr.IMGT {
		seq, ok := rec.CDRs[r.Name]
		if !ok {
			continue
		}
		label := labelStyle.Render(fmt.Sprintf("%s (IMGT %d-%d)", r.Name, r.Start, r.End))
		lines = append(lines, label)
		switch m.currentMode {
		case modeSequences:
			lines = append(lines, wrapSequence(seq, wrap)...)
		case modeUngapped:
			ungapped := strings.ReplaceAll(seq, string(cdr.Gap), "")
			if ungapped == "" {
				lines = append(lines, unknownStyle.Render("no residues numbered"))
			} else {
				lines = append(lines, wrapSequence(ungapped, wrap)...)
			}
		case modeCoverage:
			gaps := strings.Count(seq, string(cdr.Gap))
			lines = append(lines, fmt.Sprintf("%d/%d positions numbered, %d gaps", len(seq)-gaps, r.Len(), gaps))
		}
		lines = append(lines, "")
	}
	return lines
}

func wrapSequence(seq string, width int) []string {
	var out []string
	for len(seq) > width {
		out = append(out, seq[:width])
		seq = seq[width:]
	}
	return append(out, seq)
}

func (m model) renderStatusBar() string {
	leftInfo := fmt.Sprintf("%d/%d sequences", m.selectedIndex+1, len(m.records))
	centerInfo := fmt.Sprintf("Mode: %s", m.currentMode)
	rightInfo := "Press 'h' for help, 'q' to quit"

	spacing := m.width - len(leftInfo) - len(centerInfo) - len(rightInfo) - 6
	var statusContent string
	if spacing > 0 {
		leftSpacing := spacing / 2
		statusContent = leftInfo + strings.Repeat(" ", leftSpacing) + centerInfo + strings.Repeat(" ", spacing-leftSpacing) + rightInfo
	} else {
		// narrow terminals
		statusContent = fmt.Sprintf("%s | %s", leftInfo, centerInfo)
	}
	return statusBarStyle.Width(m.width).Render(statusContent)
}

func (m model) renderHelpModal() string {
	helpContent := `Antibody CDR Browser - Help

Navigation:
  up/down, j/k   Navigate list
  /              Filter sequences

View Modes:
  1              CDR sequences with gaps
  2              CDR sequences without gaps
  3              Numbering coverage
  tab            Next mode

General:
  h              Toggle this help
  q, Ctrl+C      Quit

Current Mode: ` + m.currentMode.String() + `
Total Sequences: ` + fmt.Sprintf("%d", len(m.records)) + `
`
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Render(helpContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func main() {
	resultsPath := flag.String("results", "outputs/"+report.JSONName, "results.json written by anarcdr --json")
	flag.Parse()

	res, err := report.LoadJSON(*resultsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	p := tea.NewProgram(initialModel(res), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
