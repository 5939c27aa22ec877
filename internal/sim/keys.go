package sim

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	GasUp      key.Binding
	GasDown    key.Binding
	GasSpike   key.Binding
	SteamUp    key.Binding
	SteamDown  key.Binding
	LightUp    key.Binding
	LightDown  key.Binding
	Motion     key.Binding
	Button1    key.Binding
	Button2    key.Binding
	ToggleFan  key.Binding
	ToggleDoor key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		GasUp:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g/G", "gas +/-")),
		GasDown:    key.NewBinding(key.WithKeys("G")),
		GasSpike:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "gas leak")),
		SteamUp:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s/S", "steam +/-")),
		SteamDown:  key.NewBinding(key.WithKeys("S")),
		LightUp:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l/L", "light +/-")),
		LightDown:  key.NewBinding(key.WithKeys("L")),
		Motion:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "motion")),
		Button1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "fan button")),
		Button2:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "door button")),
		ToggleFan:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "send F")),
		ToggleDoor: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "send D")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.GasUp, k.GasSpike, k.SteamUp, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.GasUp, k.GasSpike, k.SteamUp, k.LightUp},
		{k.Motion, k.Button1, k.Button2},
		{k.ToggleFan, k.ToggleDoor, k.Help, k.Quit},
	}
}
