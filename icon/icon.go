// Package icon renders status glyphs in the variant chosen by icons.variant.
package icon

import (
	"github.com/qkd/kdplayer/key"
	"github.com/spf13/viper"
)

const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies a glyph.
type Icon int

const (
	Play Icon = iota
	Pause
	Stop
	Music
	Clock
	Image
	Success
	Fail
	Progress
)

type iconDef struct {
	emoji string
	nerd  string
	plain string
}

func (d iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

var icons = map[Icon]iconDef{
	Play:     {emoji: "▶️", nerd: "\uf04b", plain: ">"},
	Pause:    {emoji: "⏸️", nerd: "\uf04c", plain: "||"},
	Stop:     {emoji: "⏹️", nerd: "\uf04d", plain: "[]"},
	Music:    {emoji: "🎵", nerd: "\uf001", plain: "~"},
	Clock:    {emoji: "⏱️", nerd: "\uf017", plain: "@"},
	Image:    {emoji: "🖼️", nerd: "\uf03e", plain: "#"},
	Success:  {emoji: "✅", nerd: "\uf00c", plain: "+"},
	Fail:     {emoji: "❌", nerd: "\uf00d", plain: "x"},
	Progress: {emoji: "⏳", nerd: "\uf110", plain: "..."},
}

// Get returns the glyph for i in the configured variant.
func Get(i Icon) string {
	return icons[i].get()
}
