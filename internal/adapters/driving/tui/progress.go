package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driving"
)

// pollInterval is how often the progress view samples build status.
const pollInterval = 100 * time.Millisecond

// KeyMap defines the keybindings for the progress view.
type KeyMap struct {
	// Cancel stops the running build.
	Cancel key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c", "cancel"),
		),
	}
}

// tickMsg asks the model to take a fresh status sample.
type tickMsg time.Time

// buildResult carries the build outcome from the build goroutine.
type buildResult struct {
	summary *domain.BuildSummary
	err     error
}

// Progress is the live build display. It polls the orchestrator for
// status while the build runs elsewhere and quits once the outcome
// arrives.
type Progress struct {
	// orch is the build orchestrator being observed.
	orch driving.BuildOrchestrator

	// styles holds the TUI styles.
	styles *Styles

	// keymap holds the cancel keybinding.
	keymap *KeyMap

	// spin is the live activity indicator.
	spin spinner.Model

	// status is the most recent status sample.
	status driving.BuildStatus

	// summary and err hold the build outcome once it arrives.
	summary *domain.BuildSummary
	err     error

	// done records that the build outcome has arrived.
	done bool

	// interrupted records that the user cancelled the build.
	interrupted bool

	// width is the terminal width.
	width int
}

// Ensure Progress implements tea.Model.
var _ tea.Model = (*Progress)(nil)

// NewProgress creates a progress view observing the given orchestrator.
func NewProgress(orch driving.BuildOrchestrator) *Progress {
	s := DefaultStyles()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	return &Progress{
		orch:   orch,
		styles: s,
		keymap: DefaultKeyMap(),
		spin:   spin,
		width:  80,
	}
}

// Init implements tea.Model.
func (p *Progress) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, p.sample())
}

// sample schedules the next status poll.
func (p *Progress) sample() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (p *Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case tea.KeyMsg:
		if key.Matches(msg, p.keymap.Cancel) {
			p.interrupted = true
			return p, tea.Quit
		}
		return p, nil

	case tickMsg:
		if p.done {
			return p, nil
		}
		p.status = p.orch.Status()
		return p, p.sample()

	case buildResult:
		p.done = true
		p.summary = msg.summary
		p.err = msg.err
		p.status = p.orch.Status()
		return p, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		return p, cmd
	}

	return p, nil
}

// View implements tea.Model.
func (p *Progress) View() string {
	if p.done || p.interrupted {
		// The final report is printed by the caller after exit.
		return ""
	}

	st := p.status

	head := fmt.Sprintf("%s %s", p.spin.View(), p.styles.Stage.Render(stageLabel(st.State)))
	if st.CurrentPath != "" && st.State == driving.StateProcessing {
		room := p.width - lipgloss.Width(head) - 1
		head += " " + p.styles.Muted.Render(truncate(st.CurrentPath, room))
	}

	counters := fmt.Sprintf("%d seen | %d matched | %d accepted | %d rejected",
		st.FilesSeen, st.FilesMatched, st.Accepted, st.Rejected)
	if st.Records > 0 {
		counters += fmt.Sprintf(" | %d records", st.Records)
	}

	hint := p.keymap.Cancel.Help()

	var b strings.Builder
	b.WriteString(head + "\n")
	b.WriteString("  " + p.styles.Normal.Render(counters) + "\n")
	b.WriteString("  " + p.styles.Muted.Render(fmt.Sprintf("%s: %s", hint.Key, hint.Desc)) + "\n")
	return b.String()
}

// Status returns the latest status sample (for testing).
func (p *Progress) Status() driving.BuildStatus {
	return p.status
}

// Done returns whether the build outcome has arrived.
func (p *Progress) Done() bool {
	return p.done
}

// Interrupted returns whether the user cancelled the build.
func (p *Progress) Interrupted() bool {
	return p.interrupted
}

// Summary returns the build summary once done.
func (p *Progress) Summary() *domain.BuildSummary {
	return p.summary
}

// Err returns the build error once done.
func (p *Progress) Err() error {
	return p.err
}

// stageLabel maps a build state to its display label.
func stageLabel(state driving.BuildState) string {
	switch state {
	case driving.StateProcessing:
		return "Processing corpus"
	case driving.StateAligning:
		return "Validating alignment"
	case driving.StateEmitting:
		return "Writing artifacts"
	case driving.StateVerifying:
		return "Verifying artifacts"
	case driving.StateComplete:
		return "Complete"
	case driving.StateFailed:
		return "Failed"
	case driving.StateIdle:
		return "Starting"
	}
	return string(state)
}

// truncate shortens s to at most width cells, marking the cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// RunBuild executes a build under the live progress display and
// returns the outcome. The display writes to stderr so redirections
// of stdout stay clean. Cancelling the display cancels the build
// context and waits for the orchestrator to unwind before returning.
func RunBuild(ctx context.Context, orch driving.BuildOrchestrator) (*domain.BuildSummary, error) {
	if orch == nil {
		return nil, ErrMissingOrchestrator
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewProgress(orch), tea.WithOutput(os.Stderr))

	results := make(chan buildResult, 1)
	go func() {
		summary, err := orch.Build(ctx)
		results <- buildResult{summary: summary, err: err}
		// Wake the display; dropped if it already quit.
		program.Send(buildResult{summary: summary, err: err})
	}()

	_, runErr := program.Run()

	// The display is gone, either on its own or cancelled by the user.
	// Stop the build and collect its outcome.
	cancel()
	res := <-results

	if runErr != nil && res.err == nil {
		return res.summary, fmt.Errorf("progress display: %w", runErr)
	}
	return res.summary, res.err
}
