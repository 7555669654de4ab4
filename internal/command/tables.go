package command

import "strings"

var repeatable = []string{"DOWN", "LEFT", "NEXT", "PREVIOUS", "RIGHT", "UP"}

// MaxRepeat is the largest repeat count any modifier sets.
const MaxRepeat = 5

var volumeLevels = []Choice{
	{Keyword: "TEN", Value: "10"},
	{Keyword: "TWENTY", Value: "20"},
	{Keyword: "THIRTY", Value: "30"},
	{Keyword: "FOURTY", Value: "40"},
	{Keyword: "FIFTY", Value: "50"},
	{Keyword: "SIXTY", Value: "60"},
	{Keyword: "SEVENTY", Value: "70"},
	{Keyword: "EIGHTY", Value: "80"},
	{Keyword: "NINETY", Value: "90"},
	{Keyword: "MAX", Value: "100"},
}

var repeatModes = []Choice{
	{Keyword: "ALL", Value: "all"},
	{Keyword: "ONE", Value: "one"},
	{Keyword: "OFF", Value: "off"},
}

func commonCommands() []Command {
	return []Command{
		{Keyword: "BACK", Method: "Input.Back"},
		{Keyword: "DOWN", Method: "Input.Down"},
		{Keyword: "HOME", Method: "Input.Home"},
		{Keyword: "LEFT", Method: "Input.Left"},
		{Keyword: "MUTE", Method: "Application.SetMute", Params: `"mute": true`},
		{Keyword: "RIGHT", Method: "Input.Right"},
		{Keyword: "SELECT", Method: "Input.Select"},
		{Keyword: "UNMUTE", Method: "Application.SetMute", Params: `"mute": false`},
		{Keyword: "UP", Method: "Input.Up"},
		{
			Keyword: "VOLUME",
			Method:  "Application.SetVolume",
			Argument: &Argument{
				Template: `"volume":%s`,
				Choices:  volumeLevels,
				Required: true,
			},
		},
		modifier("TWO", 2),
		modifier("THREE", 3),
		modifier("FOUR", 4),
		modifier("FIVE", MaxRepeat),
	}
}

func edenCommands() []Command {
	return []Command{
		player("NEXT", "Player.GoNext", ""),
		player("PAUSE", "Player.PlayPause", ""),
		player("PLAY", "Player.PlayPause", ""),
		player("PREVIOUS", "Player.GoPrevious", ""),
		{
			Keyword:     "REPEAT",
			Method:      "Player.Repeat",
			NeedsPlayer: true,
			Argument: &Argument{
				Template: `"state":"%s"`,
				Choices:  repeatModes,
				Required: true,
			},
		},
		player("SHUFFLE", "Player.Shuffle", ""),
		player("STOP", "Player.Stop", ""),
		player("UNSHUFFLE", "Player.UnShuffle", ""),
	}
}

func frodoCommands() []Command {
	commands := []Command{
		{Keyword: "CONTEXT", Method: "Input.ContextMenu"},
		{Keyword: "MENU", Method: "Input.ShowOSD"},
		player("NEXT", "Player.GoTo", `"to":"next"`),
		player("PAUSE", "Player.SetSpeed", `"speed":0`),
		player("PLAY", "Player.SetSpeed", `"speed":1`),
		player("PREVIOUS", "Player.GoTo", `"to":"previous"`),
		{
			Keyword:     "REPEAT",
			Method:      "Player.SetRepeat",
			NeedsPlayer: true,
			Argument: &Argument{
				Template: `"repeat":"%s"`,
				Choices:  repeatModes,
				Default:  "cycle",
			},
		},
		player("SHUFFLE", "Player.SetShuffle", `"shuffle":true`),
		player("STOP", "Player.Stop", ""),
		player("UNSHUFFLE", "Player.SetShuffle", `"shuffle":false`),
	}

	for _, keyword := range []string{"MUSIC", "PICTURES", "PROGRAMS", "SETTINGS", "T_V", "VIDEOS", "WEATHER"} {
		window := strings.ToLower(strings.ReplaceAll(keyword, "_", ""))
		commands = append(commands, Command{
			Keyword: keyword,
			Method:  "GUI.ActivateWindow",
			Params:  `"window":"` + window + `"`,
		})
	}
	return commands
}

func player(keyword, method, params string) Command {
	return Command{Keyword: keyword, Method: method, Params: params, NeedsPlayer: true}
}

func modifier(keyword string, repeat int) Command {
	return Command{
		Keyword:  keyword,
		Modifier: &Modifier{Repeat: repeat, Applies: repeatable},
	}
}
