package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pfeifer.dev/trackd/cereal"
	ms "pfeifer.dev/trackd/settings"
)

type mainState int

const (
	showMenu mainState = iota
	showSettings
	showOutput
	showStatus
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)

type TickMsg time.Time

func tickEvery() tea.Cmd {
	return tea.Every(50*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

type uiModel struct {
	list        list.Model
	state       mainState
	settings    settingsModel
	output      outputModel
	pub         *cereal.Publisher[cereal.Control]
	sub         *cereal.Subscriber[cereal.Snapshot]
	statusSub   *cereal.Subscriber[cereal.Status]
	status      cereal.Status
	statusValid bool
}

type item struct {
	title, desc string
	state       mainState
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

func initialModel() uiModel {
	items := []list.Item{
		item{title: "Settings", desc: "Modify settings of an active instance of trackd", state: showSettings},
		item{title: "Watch", desc: "Watch the live metrics from trackd", state: showOutput},
		item{title: "Status", desc: "Show the active settings and loop rate of trackd", state: showStatus},
	}

	listDelegate := list.NewDefaultDelegate()
	pub := cereal.NewControlPublisher()
	sub := cereal.NewMetricsSubscriber()
	statusSub := cereal.NewStatusSubscriber()
	m := uiModel{list: list.New(items, listDelegate, 0, 0), settings: getSettingsModel(), pub: &pub, sub: &sub, statusSub: &statusSub}
	m.list.Title = "Trackd Actions"
	return m
}

func (m uiModel) Init() tea.Cmd {
	return tickEvery()
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEsc && (m.state == showOutput || m.state == showStatus) {
			m.state = showMenu
			return m, nil
		}
		if msg.Type == tea.KeyEnter && m.state == showMenu && m.list.FilterState() != list.Filtering {
			it := m.list.SelectedItem().(item)
			m.state = it.state
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		m.settings, _ = m.settings.Update(msg, &m)
	case TickMsg:
		status, success := m.statusSub.Read()
		if success {
			m.status = status
			ms.Settings.Unmarshal([]byte(status.Settings))
			m.statusValid = true
		}
		m.output, _ = m.output.Update(msg, &m)
		m.settings, _ = m.settings.Update(msg, &m)
		return m, tickEvery()
	}

	var cmd tea.Cmd
	switch m.state {
	case showSettings:
		m.settings, cmd = m.settings.Update(msg, &m)
	case showOutput, showStatus:
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m uiModel) View() string {
	switch m.state {
	case showSettings:
		return m.settings.View()
	case showOutput:
		return m.output.View()
	case showStatus:
		return statusView(m.status, m.statusValid)
	}
	return docStyle.Render(m.list.View())
}

func statusView(s cereal.Status, valid bool) string {
	if !valid {
		return docStyle.Render("waiting for trackd...") + "\n"
	}
	return docStyle.Render(fmt.Sprintf(
		"episode: %s\nstep: %d\nhistory: %d\nrate: %.1f/s\n\n%s",
		s.EpisodeID,
		s.Step,
		s.HistoryLen,
		s.Rate,
		s.Settings,
	)) + "\n"
}

func watch() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
