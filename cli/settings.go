package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"accd.dev/accd/bus"
)

type SettingType int

const (
	String SettingType = iota
	Float
	Bool
)

type settingsState int

const (
	showSettingsMenu settingsState = iota
	settingsExit
	settingsInput
	settingsImmediate
)

type settingsItem struct {
	title, desc string
	state       settingsState
	Command     string
	Type        SettingType
}

func (i settingsItem) Title() string       { return i.title }
func (i settingsItem) Description() string { return i.desc }
func (i settingsItem) FilterValue() string { return i.title }

type settingsModel struct {
	list         list.Model
	state        settingsState
	textInput    textinput.Model
	selectedItem settingsItem
	prompt       string
}

func (m settingsModel) Init() tea.Cmd {
	return nil
}

func (m settingsModel) Update(msg tea.Msg, mm *uiModel) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && m.state == showSettingsMenu {
			it := m.list.SelectedItem().(settingsItem)
			m.selectedItem = it
			m.state = it.state
			switch m.state {
			case settingsExit:
				m.state = showSettingsMenu
				mm.state = showMenu
			case settingsInput:
				m.prompt = m.selectedItem.Title()
				m.textInput = textinput.New()
				m.textInput.Focus()
			case settingsImmediate:
				m.state = showSettingsMenu
				mm.state = showMenu
				mm.pub.Send(bus.Command{Command: m.selectedItem.Command})
			}
			return m, nil
		}
		if msg.Type == tea.KeyEnter && m.state == settingsInput {
			m.state = showSettingsMenu

			cmd := bus.Command{Command: m.selectedItem.Command}
			result := m.textInput.Value()

			switch m.selectedItem.Type {
			case String:
				cmd.Str = result
			case Bool:
				cmd.Bool = result == "true"
			case Float:
				val, err := strconv.ParseFloat(result, 64)
				if err != nil {
					return m, nil
				}
				cmd.Value = val
			}
			mm.pub.Send(cmd)
			return m, nil
		}
		if msg.Type == tea.KeyEsc && m.state == settingsInput {
			m.state = showSettingsMenu
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	if m.state == settingsInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m settingsModel) View() string {
	switch m.state {
	case settingsInput:
		return docStyle.Render(fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			m.prompt,
			m.textInput.View(),
			"(esc to cancel)",
		) + "\n")
	default:
		return docStyle.Render(m.list.View())
	}
}

func getSettingsModel() settingsModel {
	items := []list.Item{
		settingsItem{
			title:   "Speed Increment",
			desc:    "How many km/h each target speed adjustment adds or removes",
			Command: bus.CommandSetSpeedIncrement,
			Type:    Float,
			state:   settingsInput,
		},
		settingsItem{
			title:   "Emergency Brake Distance",
			desc:    "Obstacles closer than this many meters trigger a full brake",
			Command: bus.CommandSetEmergencyDistance,
			Type:    Float,
			state:   settingsInput,
		},
		settingsItem{
			title:   "Warning Distance",
			desc:    "Obstacles closer than this many meters raise a warning",
			Command: bus.CommandSetWarningDistance,
			Type:    Float,
			state:   settingsInput,
		},
		settingsItem{
			title:   "Off-Road Deviation Limit",
			desc:    "How many meters from the drivable surface counts as off-road",
			Command: bus.CommandSetOffroadDeviation,
			Type:    Float,
			state:   settingsInput,
		},
		settingsItem{
			title:   "Delegate Enabled",
			desc:    "When enabled accd hands cruise control to the autonomy delegate",
			Command: bus.CommandSetDelegateEnabled,
			Type:    Bool,
			state:   settingsInput,
		},
		settingsItem{
			title:   "Publish Interval",
			desc:    "How many seconds between telemetry heartbeats when nothing changes",
			Command: bus.CommandSetPublishInterval,
			Type:    Float,
			state:   settingsInput,
		},
		settingsItem{
			title:   "Set Log Level",
			desc:    "Modify how verbose logging will be for the accd system",
			Command: bus.CommandSetLogLevel,
			Type:    String,
			state:   settingsInput,
		},
		settingsItem{
			title:   "Save Settings",
			desc:    "Persists any updates to the settings across reboots",
			Command: bus.CommandSaveSettings,
			state:   settingsImmediate,
		},
		settingsItem{
			title:   "Reload Settings",
			desc:    "Reloads the persisted settings, discarding unpersisted changes",
			Command: bus.CommandReloadSettings,
			state:   settingsImmediate,
		},
		settingsItem{
			title: "Return to Main Menu",
			desc:  "Exit settings configuration and return to the initial actions menu",
			state: settingsExit,
		},
	}

	listDelegate := list.NewDefaultDelegate()
	m := settingsModel{list: list.New(items, listDelegate, 0, 0)}
	m.list.Title = "Accd Settings"
	return m
}
