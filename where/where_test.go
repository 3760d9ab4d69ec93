package where

import (
	"path/filepath"
	"testing"

	"github.com/qkd/kdplayer/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Given a config path override", t, func() {
		t.Setenv(EnvConfigPath, "/custom/kdplayer")

		Convey("Config should use it and create it", func() {
			So(Config(), ShouldEqual, "/custom/kdplayer")
			exists, err := filesystem.API().DirExists("/custom/kdplayer")
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})

		Convey("Derived paths should live under it", func() {
			So(Logs(), ShouldEqual, filepath.Join("/custom/kdplayer", "logs"))
			So(History(), ShouldEqual, filepath.Join("/custom/kdplayer", "history.json"))
		})
	})
}
