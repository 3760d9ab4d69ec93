package open

import (
	"runtime"
	"testing"

	"github.com/qkd/kdplayer/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given an image path", t, func() {
		path := "/tmp/cover.jpg"

		switch runtime.GOOS {
		case constant.Linux:
			Convey("It uses xdg-open without an app", func() {
				cmd, err := command(path, "")
				So(err, ShouldBeNil)
				So(cmd.Args, ShouldResemble, []string{"xdg-open", path})
			})

			Convey("It runs the app directly when given", func() {
				cmd, err := command(path, "feh")
				So(err, ShouldBeNil)
				So(cmd.Args, ShouldResemble, []string{"feh", path})
			})
		case constant.Darwin:
			Convey("It passes the app to open -a", func() {
				cmd, err := command(path, "Preview")
				So(err, ShouldBeNil)
				So(cmd.Args, ShouldResemble, []string{"open", "-a", "Preview", path})
			})
		default:
			Convey("It builds a command or reports the platform", func() {
				cmd, err := command(path, "")
				So(cmd != nil || err != nil, ShouldBeTrue)
			})
		}
	})
}
