package config

import (
	"encoding/json"
	"testing"

	"github.com/qkd/kdplayer/filesystem"
	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		t.Setenv(where.EnvConfigPath, "/kd/config")

		Convey("Should initialize without a config file", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should populate every default", func() {
			So(Setup(), ShouldBeNil)
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetInt(key.PlayerPositionIntervalMs), ShouldEqual, 10)
			So(viper.GetInt(key.ArtworkJPEGQuality), ShouldEqual, 100)
		})

		Convey("Should read values from kdplayer.toml", func() {
			err := filesystem.API().WriteFile(Path(), []byte("[network]\nfetch_timeout_seconds = 3\n"), 0644)
			So(err, ShouldBeNil)
			So(Setup(), ShouldBeNil)
			So(viper.GetInt(key.NetworkFetchTimeoutSeconds), ShouldEqual, 3)
			So(filesystem.API().Remove(Path()), ShouldBeNil)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("player.position_interval_ms"), ShouldEqual, "player_position_interval_ms")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.EventsBuffer]

		Convey("Env should be prefixed", func() {
			So(field.Env(), ShouldEqual, "KDPLAYER_EVENTS_BUFFER")
		})

		Convey("JSON should expose type and default", func() {
			raw, err := json.Marshal(&field)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)
			So(decoded["type"], ShouldEqual, "int")
			So(decoded["default"], ShouldEqual, float64(64))
		})
	})
}
