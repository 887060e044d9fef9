package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		for _, tc := range []struct {
			a, b string
			want int
		}{
			{"0.37.0", "0.33.0", 1},
			{"v0.33.0", "0.33.0", 0},
			{"0.32.9", "0.33.0", -1},
			{"1.0.0", "0.99.99", 1},
		} {
			got, err := Compare(tc.a, tc.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
		}

		_, err := Compare("git-abc", "0.33.0")
		So(err, ShouldNotBeNil)
	})
}

func TestParseEngine(t *testing.T) {
	Convey("ParseEngine", t, func() {
		Convey("Should read release builds", func() {
			v, err := ParseEngine("mpv 0.37.0 Copyright © 2000-2023 mpv/MPlayer/mplayer2 projects\n built on ...")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.37.0")
		})

		Convey("Should read prefixed releases", func() {
			v, err := ParseEngine("mpv v0.38.0-dirty Copyright")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.38.0")
		})

		Convey("Should reject other output", func() {
			_, err := ParseEngine("vlc 3.0.20")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSupported(t *testing.T) {
	Convey("Supported", t, func() {
		So(Supported("0.37.0"), ShouldBeTrue)
		So(Supported("0.33.0"), ShouldBeTrue)
		So(Supported("0.29.1"), ShouldBeFalse)
		So(Supported("git-1234"), ShouldBeTrue)
	})
}
