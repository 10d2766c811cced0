package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hindsight-ai/memctl/internal/engine/batch"
)

// Default dimensions for the run dialog.
const (
	runDefaultWidth = 60
	runBarPadding   = 4
)

// Run dialog styles.
var (
	runTitleStyle  = lipgloss.NewStyle().Bold(true)                                   //nolint:gochecknoglobals // Style constants.
	runStatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))            //nolint:gochecknoglobals // Style constants.
	runDoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)  //nolint:gochecknoglobals // Style constants.
	runCancelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true) //nolint:gochecknoglobals // Style constants.
	runFailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) //nolint:gochecknoglobals // Style constants.
)

// SnapshotMsg delivers a progress snapshot from the executor goroutine.
type SnapshotMsg batch.Snapshot

// DoneMsg delivers the run's terminal outcome.
type DoneMsg struct {
	Result batch.Result
	Err    error
	State  batch.State
}

// RunModel is the processing dialog for a bulk run: progress bar,
// counts, elapsed time, ETA, and a cancel key. Cancellation is
// cooperative: pressing q or ctrl+c requests the signal and the dialog
// stays up until the in-flight chunk finishes.
type RunModel struct {
	title  string
	bar    progress.Model
	signal *batch.Signal

	snapshot   batch.Snapshot
	cancelling bool
	done       bool
	outcome    DoneMsg

	width int
}

// NewRunModel creates the dialog for a run controlled by signal.
func NewRunModel(title string, signal *batch.Signal) RunModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = runDefaultWidth - runBarPadding
	return RunModel{
		title:  title,
		bar:    bar,
		signal: signal,
		width:  runDefaultWidth,
	}
}

// Init implements tea.Model.
func (m RunModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.done {
				return m, tea.Quit
			}
			// Request once; the executor stops at the next chunk boundary.
			if !m.cancelling {
				m.cancelling = true
				m.signal.Request()
			}
			return m, nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - runBarPadding
		if barWidth > 0 {
			m.bar.Width = barWidth
		}
		return m, nil

	case SnapshotMsg:
		m.snapshot = batch.Snapshot(msg)
		return m, nil

	case DoneMsg:
		m.done = true
		m.outcome = msg
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m RunModel) View() string {
	snap := m.snapshot

	var percent float64
	if snap.TotalItems > 0 {
		percent = float64(snap.ProcessedItems) / float64(snap.TotalItems)
	}

	view := runTitleStyle.Render(m.title) + "\n\n"
	view += m.bar.ViewAs(percent) + "\n\n"
	view += runStatStyle.Render(fmt.Sprintf("%d / %d items  •  chunk %d of %d",
		snap.ProcessedItems, snap.TotalItems, snap.ProcessedChunks, snap.TotalChunks)) + "\n"
	eta := "estimating"
	if snap.ETA > 0 {
		eta = FormatDuration(snap.ETA)
	}
	view += runStatStyle.Render(fmt.Sprintf("elapsed %s  •  ETA %s",
		FormatDuration(snap.Elapsed), eta)) + "\n\n"

	switch {
	case m.done:
		view += m.outcomeLine() + "\n"
	case m.cancelling:
		view += runCancelStyle.Render("cancelling after current batch…") + "\n"
	default:
		view += runStatStyle.Render("press q to cancel") + "\n"
	}

	return view
}

// Done reports whether the run reached a terminal state.
func (m RunModel) Done() bool {
	return m.done
}

// Outcome returns the final result; only meaningful once Done is true.
func (m RunModel) Outcome() DoneMsg {
	return m.outcome
}

// outcomeLine renders the terminal status line.
func (m RunModel) outcomeLine() string {
	switch m.outcome.State {
	case batch.StateSucceeded:
		return runDoneStyle.Render(fmt.Sprintf("done: %d applied, %d failed",
			m.outcome.Result.Successful, m.outcome.Result.Failed))
	case batch.StateCancelled:
		return runCancelStyle.Render(fmt.Sprintf("cancelled: %d applied before stop",
			m.outcome.Result.Successful))
	case batch.StateFailed:
		return runFailStyle.Render(fmt.Sprintf("failed: %v (%d applied before error)",
			m.outcome.Err, m.outcome.Result.Successful))
	default:
		return ""
	}
}

// FormatDuration renders a duration compactly for status lines:
// "45s", "3m10s", "1h12m".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)

	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second

	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
