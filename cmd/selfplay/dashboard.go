package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MatchUpdate is sent by a worker when it finishes a match
type MatchUpdate struct {
	WorkerID int
	Result   MatchResult
	Err      error
}

type TickMsg time.Time

type doneMsg struct{}

type model struct {
	total       int
	played      int
	failed      int
	wins        map[string]int
	ticks       int64
	startTime   time.Time
	recentGames []string
	updates     <-chan MatchUpdate
}

func initialModel(total int, updates <-chan MatchUpdate) model {
	return model{
		total:     total,
		wins:      map[string]int{},
		startTime: time.Now(),
		updates:   updates,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func waitForUpdate(updates <-chan MatchUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return u
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		m.ticks = totalTicks.Load()
		return m, tickCmd()
	case doneMsg:
		return m, tea.Quit
	case MatchUpdate:
		m = m.record(msg)
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) record(u MatchUpdate) model {
	var line string
	if u.Err != nil {
		m.failed++
		line = fmt.Sprintf("Worker %d: %s failed: %v", u.WorkerID, u.Result.MatchID, u.Err)
	} else {
		m.played++
		m.wins[u.Result.Winner.String()]++
		line = fmt.Sprintf("Worker %d: %s winner %v, ticks %d, waves %d", u.WorkerID, u.Result.MatchID, u.Result.Winner, u.Result.Ticks, u.Result.Waves)
	}
	m.recentGames = append([]string{line}, m.recentGames...)
	if len(m.recentGames) > 10 {
		m.recentGames = m.recentGames[:10]
	}
	return m
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	ticksPerSec := 0.0
	if duration.Seconds() >= 1 {
		ticksPerSec = float64(m.ticks) / duration.Seconds()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Matches:    %d/%d (%d failed)\n", m.played, m.total, m.failed)
	fmt.Fprintf(&b, "Wins:       GDI %d  NOD %d  draw %d\n", m.wins["GDI"], m.wins["NOD"], m.wins["none"])
	fmt.Fprintf(&b, "Ticks:      %d\n", m.ticks)
	fmt.Fprintf(&b, "Ticks/Sec:  %.0f\n", ticksPerSec)
	fmt.Fprintf(&b, "Duration:   %s\n\n", duration.Round(time.Second))
	b.WriteString("Recent Matches:\n")
	for _, g := range m.recentGames {
		b.WriteString(g + "\n")
	}
	b.WriteString("\nPress q to quit.\n")
	return b.String()
}
