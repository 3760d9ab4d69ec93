package util

import (
	"testing"

	"github.com/qkd/kdplayer/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("Artist: Song?"), ShouldEqual, "Artist_Song")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("file__name.jpg"), ShouldEqual, "file_name.jpg")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-cover-"), ShouldEqual, "cover")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "play", "plays"), ShouldEqual, "1 play")
		So(Quantify(3, "play", "plays"), ShouldEqual, "3 plays")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("history"), ShouldEqual, "History")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestTruncate(t *testing.T) {
	Convey("Truncate", t, func() {
		So(Truncate("Daft Punk - Around the World", 9), ShouldEqual, "Daft Pun…")
		So(Truncate("short", 20), ShouldEqual, "short")
		So(Truncate("anything", 0), ShouldEqual, "anything")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete removes files and directories", t, func() {
		fs := filesystem.API()
		So(fs.WriteFile("/tmp/kd/a/b.txt", []byte("x"), 0644), ShouldBeNil)

		So(Delete("/tmp/kd/a/b.txt"), ShouldBeNil)
		exists, _ := fs.Exists("/tmp/kd/a/b.txt")
		So(exists, ShouldBeFalse)

		So(Delete("/tmp/kd"), ShouldBeNil)
		exists, _ = fs.DirExists("/tmp/kd")
		So(exists, ShouldBeFalse)

		So(Delete("/tmp/kd"), ShouldNotBeNil)
	})
}
