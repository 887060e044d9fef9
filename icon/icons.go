// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Play Icon = iota + 1
	Pause
	Stop
	Next
	Previous
	Volume
	Mute
	Track
	Success
	Fail
	Warn
	Progress
)

var icons = map[Icon]*iconDef{
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(＾▽＾)",
		squares: "▶",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(￣ω￣)",
		squares: "⏸",
	},
	Stop: {
		emoji:   "⏹️",
		nerd:    "",
		plain:   "[]",
		kaomoji: "(－_－)",
		squares: "■",
	},
	Next: {
		emoji:   "⏭️",
		nerd:    "",
		plain:   ">>",
		kaomoji: "(ノ°▽°)ノ",
		squares: "⏭",
	},
	Previous: {
		emoji:   "⏮️",
		nerd:    "",
		plain:   "<<",
		kaomoji: "ヽ(°▽°ヽ)",
		squares: "⏮",
	},
	Volume: {
		emoji:   "🔊",
		nerd:    "",
		plain:   "vol",
		kaomoji: "(°o°)",
		squares: "◆",
	},
	Mute: {
		emoji:   "🔇",
		nerd:    "",
		plain:   "mute",
		kaomoji: "(￣^￣)",
		squares: "◇",
	},
	Track: {
		emoji:   "🎵",
		nerd:    "",
		plain:   "~",
		kaomoji: "♪(´▽｀)",
		squares: "♪",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "Success",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "▣",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "Fail",
		kaomoji: "(×﹏×)",
		squares: "▢",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(・_・;)",
		squares: "▲",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(・・)",
		squares: "▦",
	},
}
