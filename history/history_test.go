package history

import (
	"testing"

	"github.com/qkd/kdplayer/filesystem"
	"github.com/qkd/kdplayer/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)

		Convey("When remembering a station", func() {
			So(Remember("Groove Salad", "http://somafm.com/groovesalad.pls", []string{"http://ice1.somafm.com/groovesalad"}), ShouldBeNil)

			Convey("Then it is listed", func() {
				recent, err := Recent()
				So(err, ShouldBeNil)
				So(recent, ShouldHaveLength, 1)
				So(recent[0].Title, ShouldEqual, "Groove Salad")
				So(recent[0].Plays, ShouldEqual, 1)
				So(recent[0].Sources, ShouldResemble, []string{"http://ice1.somafm.com/groovesalad"})
			})

			Convey("Then playing it again bumps the counter", func() {
				So(Remember("Groove Salad", "http://somafm.com/groovesalad.pls", nil), ShouldBeNil)
				recent, _ := Recent()
				So(recent, ShouldHaveLength, 1)
				So(recent[0].Plays, ShouldEqual, 2)
			})

			Convey("Then it can be removed", func() {
				So(Remove("http://somafm.com/groovesalad.pls"), ShouldBeNil)
				recent, _ := Recent()
				So(recent, ShouldBeEmpty)
			})
		})

		Convey("When remembering several stations", func() {
			So(Remember("Groove Salad", "http://somafm.com/groovesalad.pls", nil), ShouldBeNil)
			So(Remember("Drone Zone", "http://somafm.com/dronezone.pls", nil), ShouldBeNil)
			So(Remember("", "http://radio.example/live.m3u", nil), ShouldBeNil)

			Convey("Then the newest comes first", func() {
				recent, _ := Recent()
				So(recent[0].URL, ShouldEqual, "http://radio.example/live.m3u")
				So(recent[0].String(), ShouldEqual, "http://radio.example/live.m3u")
			})

			Convey("Then fuzzy search matches titles and urls", func() {
				found, err := Find("drn")
				So(err, ShouldBeNil)
				So(found, ShouldHaveLength, 1)
				So(found[0].Title, ShouldEqual, "Drone Zone")

				found, _ = Find("example")
				So(found, ShouldHaveLength, 1)

				found, _ = Find("")
				So(found, ShouldHaveLength, 3)
			})
		})

		Convey("When the limit is exceeded", func() {
			viper.Set(key.HistoryLimit, 2)
			defer viper.Set(key.HistoryLimit, 0)

			So(Remember("a", "http://a", nil), ShouldBeNil)
			So(Remember("b", "http://b", nil), ShouldBeNil)
			So(Remember("c", "http://c", nil), ShouldBeNil)

			Convey("Then the oldest is forgotten", func() {
				recent, _ := Recent()
				So(recent, ShouldHaveLength, 2)
				So(recent[1].URL, ShouldEqual, "http://b")
			})
		})
	})
}
