package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given two versions", t, func() {
		Convey("It orders by major, minor and patch", func() {
			for _, tc := range []struct {
				a, b string
				want int
			}{
				{"0.37.0", "0.29.0", 1},
				{"v0.29.0", "0.29.0", 0},
				{"0.28.2", "0.29.0", -1},
				{"1.0.0", "0.99.99", 1},
				{"0.38.0-git", "0.38.0", 0},
			} {
				got, err := Compare(tc.a, tc.b)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, tc.want)
			}
		})

		Convey("It rejects garbage", func() {
			_, err := Compare("latest", "0.1.0")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseMPV(t *testing.T) {
	Convey("Given mpv --version output", t, func() {
		Convey("It reads release builds", func() {
			v, err := ParseMPV("mpv 0.35.1 Copyright © 2000-2023 mpv/MPlayer/mplayer2 projects\n built on ...")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.35.1")
		})

		Convey("It reads v-prefixed builds", func() {
			v, err := ParseMPV("mpv v0.38.0-dirty Copyright © 2000-2024 mpv/MPlayer/mplayer2 projects")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.38.0")
		})

		Convey("It fails on anything else", func() {
			_, err := ParseMPV("command not found")
			So(err, ShouldNotBeNil)
		})
	})
}
