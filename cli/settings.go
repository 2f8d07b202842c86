package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"pfeifer.dev/trackd/cereal"
	"pfeifer.dev/trackd/utils"
)

type SettingType int

const (
	None SettingType = iota
	String
	Float
	Bool
)

type settingsState int

const (
	showSettingsMenu settingsState = iota
	settingsExit
	settingsInput
	settingsCommand
)

type settingsItem struct {
	title, desc string
	state       settingsState
	MessageType cereal.ControlType
	Type        SettingType
}

func (i settingsItem) Title() string       { return i.title }
func (i settingsItem) Description() string { return i.desc }
func (i settingsItem) FilterValue() string { return i.title }

// controlFor builds the control message for a setting from the text a user
// typed.
func controlFor(it settingsItem, value string) (cereal.Control, error) {
	c := cereal.Control{Type: it.MessageType}
	value = strings.TrimSpace(value)
	switch it.Type {
	case String:
		c.Str = value
	case Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return c, errors.Wrapf(err, "invalid value for %s", it.title)
		}
		c.Bool = b
	case Float:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return c, errors.Wrapf(err, "invalid value for %s", it.title)
		}
		if f <= 0 {
			return c, errors.Errorf("%s must be positive", it.title)
		}
		c.Float = f
	}
	return c, nil
}

func settingItems() []settingsItem {
	return []settingsItem{
		{
			title:       "Vehicle Length",
			desc:        "Length of the car in metres, used for the wheel overhang of the safe corridor",
			MessageType: cereal.ControlType_setVehicleLength,
			Type:        Float,
			state:       settingsInput,
		},
		{
			title:       "Vehicle Width",
			desc:        "Width of the car in metres, used for the wheel overhang of the safe corridor",
			MessageType: cereal.ControlType_setVehicleWidth,
			Type:        Float,
			state:       settingsInput,
		},
		{
			title:       "Steps Per Second",
			desc:        "Simulator step rate used for speeds and lap time predictions",
			MessageType: cereal.ControlType_setStepsPerSecond,
			Type:        Float,
			state:       settingsInput,
		},
		{
			title:       "Speed Window",
			desc:        "Number of step intervals averaged for the track and progress speeds",
			MessageType: cereal.ControlType_setSpeedWindow,
			Type:        Float,
			state:       settingsInput,
		},
		{
			title:       "Obstacle Length",
			desc:        "Length in metres of the box placed around every obstacle",
			MessageType: cereal.ControlType_setObstacleLength,
			Type:        Float,
			state:       settingsInput,
		},
		{
			title:       "Obstacle Width",
			desc:        "Width in metres of the box placed around every obstacle",
			MessageType: cereal.ControlType_setObstacleWidth,
			Type:        Float,
			state:       settingsInput,
		},
		{
			title:       "Record Path",
			desc:        "Sqlite file metrics are recorded to, leave empty to disable recording",
			MessageType: cereal.ControlType_setRecordPath,
			Type:        String,
			state:       settingsInput,
		},
		{
			title:       "Set Log Level",
			desc:        "Modify how verbose logging will be for the trackd system",
			MessageType: cereal.ControlType_setLogLevel,
			Type:        String,
			state:       settingsInput,
		},
		{
			title:       "Load Default Settings",
			desc:        "Reset every setting to its default value",
			MessageType: cereal.ControlType_loadDefaultSettings,
			state:       settingsCommand,
		},
		{
			title:       "Reload Settings",
			desc:        "Discard unsaved changes and reload the persisted settings",
			MessageType: cereal.ControlType_reloadSettings,
			state:       settingsCommand,
		},
		{
			title:       "Save Settings",
			desc:        "Persists any updates to the settings across restarts",
			MessageType: cereal.ControlType_saveSettings,
			state:       settingsCommand,
		},
		{
			title: "Return to Main Menu",
			desc:  "Exit settings configuration and return to the initial actions menu",
			state: settingsExit,
		},
	}
}

type settingsModel struct {
	list         list.Model
	state        settingsState
	textInput    textinput.Model
	selectedItem settingsItem
	prompt       string
	err          error
}

func (m settingsModel) Update(msg tea.Msg, mm *uiModel) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state == settingsInput {
			m.state = showSettingsMenu
			return m, nil
		}
		if msg.Type == tea.KeyEnter && m.state == showSettingsMenu && m.list.FilterState() != list.Filtering {
			it := m.list.SelectedItem().(settingsItem)
			m.selectedItem = it
			m.err = nil
			switch it.state {
			case settingsExit:
				mm.state = showMenu
			case settingsInput:
				m.state = settingsInput
				m.prompt = it.Title()
				m.textInput.SetValue("")
				m.textInput.Focus()
			case settingsCommand:
				utils.Loge(mm.pub.Send(cereal.Control{Type: it.MessageType}, true))
				if it.MessageType == cereal.ControlType_saveSettings {
					mm.state = showMenu
				}
			}
			return m, nil
		}
		if msg.Type == tea.KeyEnter && m.state == settingsInput {
			c, err := controlFor(m.selectedItem, m.textInput.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.state = showSettingsMenu
			utils.Loge(mm.pub.Send(c, true))
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		return m, nil
	case TickMsg:
		return m, nil
	}

	var cmd tea.Cmd
	if m.state == settingsInput {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m settingsModel) View() string {
	switch m.state {
	case settingsInput:
		footer := "(esc to cancel)"
		if m.err != nil {
			footer = warnStyle.Render(m.err.Error()) + "\n" + footer
		}
		return docStyle.Render(fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			m.prompt,
			m.textInput.View(),
			footer,
		)) + "\n"
	default:
		return docStyle.Render(m.list.View())
	}
}

func getSettingsModel() settingsModel {
	var items []list.Item
	for _, it := range settingItems() {
		items = append(items, it)
	}

	listDelegate := list.NewDefaultDelegate()
	m := settingsModel{list: list.New(items, listDelegate, 0, 0), textInput: textinput.New()}
	m.list.Title = "Trackd Settings"
	return m
}
