package metadata

import (
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given a raw stream title", t, func() {
		Convey("It splits on the separator", func() {
			n := Normalize("Artist - Song", mo.Some(Artwork{URL: "http://x/a.jpg"}))
			So(n.Title, ShouldEqual, "Artist")
			So(n.Subtitle, ShouldEqual, "Song")
			So(n.Fields(), ShouldResemble, [3]string{"Artist", "Song", "http://x/a.jpg"})
		})

		Convey("Without a separator the subtitle is empty", func() {
			n := Normalize("Station ID", mo.None[Artwork]())
			So(n.Fields(), ShouldResemble, [3]string{"Station ID", "", ""})
			So(n.Artwork.IsPresent(), ShouldBeFalse)
		})

		Convey("Only the first separator splits", func() {
			n := Normalize("A - B - C", mo.None[Artwork]())
			So(n.Title, ShouldEqual, "A")
			So(n.Subtitle, ShouldEqual, "B - C")
		})

		Convey("A hyphen without spaces does not split", func() {
			So(Normalize("Jay-Z", mo.None[Artwork]()).Subtitle, ShouldBeEmpty)
		})

		Convey("An empty artwork reference is dropped", func() {
			So(Normalize("x", mo.Some(Artwork{})).Artwork.IsPresent(), ShouldBeFalse)
		})

		Convey("Inline artwork has no reference string", func() {
			n := Normalize("x", mo.Some(Artwork{Data: []byte{1, 2}}))
			So(n.Artwork.IsPresent(), ShouldBeTrue)
			So(n.Fields()[2], ShouldBeEmpty)
		})

		Convey("Equal compares fields and inline bytes", func() {
			a := Normalize("A - B", mo.Some(Artwork{Data: []byte{1}}))
			So(a.Equal(Normalize("A - B", mo.Some(Artwork{Data: []byte{1}}))), ShouldBeTrue)
			So(a.Equal(Normalize("A - B", mo.Some(Artwork{Data: []byte{2}}))), ShouldBeFalse)
			So(a.Equal(Normalize("A - C", mo.Some(Artwork{Data: []byte{1}}))), ShouldBeFalse)
		})

		Convey("String joins the fields back", func() {
			So(Normalize("A - B", mo.None[Artwork]()).String(), ShouldEqual, "A - B")
			So(Normalize("A", mo.None[Artwork]()).String(), ShouldEqual, "A")
		})
	})
}

func TestParseICY(t *testing.T) {
	Convey("Given ICY metadata blocks", t, func() {
		Convey("Title and url are extracted", func() {
			info, ok := ParseICY("StreamTitle='Daft Punk - Da Funk';StreamUrl='http://x/c.jpg';")
			So(ok, ShouldBeTrue)
			So(info.StreamTitle, ShouldEqual, "Daft Punk - Da Funk")
			So(info.StreamURL, ShouldEqual, "http://x/c.jpg")
			So(info.Normalized().Fields(), ShouldResemble, [3]string{"Daft Punk", "Da Funk", "http://x/c.jpg"})
		})

		Convey("Apostrophes and semicolons inside values survive", func() {
			info, ok := ParseICY("StreamTitle='Guns N' Roses - Don't Cry; Live';")
			So(ok, ShouldBeTrue)
			So(info.StreamTitle, ShouldEqual, "Guns N' Roses - Don't Cry; Live")
		})

		Convey("Null padding and a missing trailer are tolerated", func() {
			info, ok := ParseICY("StreamTitle='Song'\x00\x00")
			So(ok, ShouldBeTrue)
			So(info.StreamTitle, ShouldEqual, "Song")
		})

		Convey("A block without StreamTitle is rejected", func() {
			_, ok := ParseICY("StreamUrl='http://x';")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFromCommonKeys(t *testing.T) {
	Convey("Given container metadata items", t, func() {
		Convey("Embedded artwork is kept inline", func() {
			title, art := FromCommonKeys([]Item{
				{Key: "artwork", Data: []byte{9}},
				{Key: "title", Value: "Artist - Song"},
			})
			So(title, ShouldEqual, "Artist - Song")
			So(art.MustGet().Inline(), ShouldBeTrue)
		})

		Convey("An artwork URL becomes a reference", func() {
			_, art := FromCommonKeys([]Item{{Key: "Artwork", Value: "http://x/a.png"}})
			So(art.MustGet().URL, ShouldEqual, "http://x/a.png")
		})

		Convey("Missing keys yield nothing", func() {
			title, art := FromCommonKeys([]Item{{Key: "album", Value: "x"}})
			So(title, ShouldBeEmpty)
			So(art.IsPresent(), ShouldBeFalse)
		})

		Convey("mpv style tag maps are adapted", func() {
			title, _ := FromCommonKeys(ItemsFromTags(map[string]string{"icy-title": "A - B", "icy-genre": "house"}))
			So(title, ShouldEqual, "A - B")
		})
	})
}
