package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/qkd/kdplayer/color"
	"github.com/qkd/kdplayer/constant"
	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is one registered configuration key with its default.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty renders the field for `config info`.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable bound to this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.KDPlayer + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Default holds every registered field keyed by its config key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.PlayerBackend, "mpv", "Playback device driving the session.\nAvailable options are: mpv")
	register(key.PlayerMpvPath, "mpv", "Path or name of the mpv executable")
	register(key.PlayerPositionIntervalMs, 10, "Interval between position samples while playing, in milliseconds")
	register(key.NetworkFetchTimeoutSeconds, 15, "Timeout for a single playlist or artwork fetch, in seconds")
	register(key.NetworkMaxBodyBytes, 10<<20, "Largest manifest or artwork body accepted, in bytes")
	register(key.NetworkUserAgent, constant.UserAgent, "User-Agent sent with manifest and artwork requests")
	register(key.ArtworkJPEGQuality, 100, "JPEG quality used when exporting artwork (1-100)")
	register(key.ArtworkViewer, "", "Application used by --open to show saved artwork.\nEmpty means the system default")
	register(key.EventsBuffer, 64, "Per-topic subscriber buffer; events beyond it are dropped.\nA dropped state change is sent again on the next transition")
	register(key.HistorySave, true, "Remember played sources")
	register(key.HistoryLimit, 50, "Number of recent sources to keep")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, nerd, plain")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"purple":   style.Fg(color.Purple),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
