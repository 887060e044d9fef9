package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFormatMetadata(t *testing.T) {
	Convey("formatMetadata", t, func() {
		Convey("Should prefer exact tags over fallbacks", func() {
			meta := formatMetadata(map[string]string{
				"icy-title":    "Stream Title",
				"Title":        "Track",
				"ALBUM_ARTIST": "Band",
			}, "/m/x.flac")

			So(meta.Title, ShouldEqual, "Track")
			So(meta.Artist, ShouldEqual, "Band")
			So(meta.Album, ShouldBeEmpty)
		})

		Convey("Should use stream tags when nothing else is present", func() {
			meta := formatMetadata(map[string]string{"icy-title": "Now On Air", "icy-name": "Radio"}, "https://radio.example.com")
			So(meta, ShouldResemble, Metadata{Title: "Now On Air", Artist: "Radio"})
		})

		Convey("Should ignore blank values", func() {
			meta := formatMetadata(map[string]string{"title": "  "}, "/m/song.ogg")
			So(meta.Title, ShouldEqual, "song.ogg")
		})

		Convey("Should leave everything empty without tags or file", func() {
			So(formatMetadata(nil, ""), ShouldResemble, Metadata{})
		})
	})
}

func TestFormatAudioInfo(t *testing.T) {
	Convey("formatAudioInfo", t, func() {
		Convey("Should format every present value", func() {
			info := formatAudioInfo("mp3", 320000.0, 44100.0)
			So(info.String(), ShouldEqual, "MP3 · 320 kbps · 44100 Hz")
		})

		Convey("Should drop values of the wrong type or range", func() {
			info := formatAudioInfo(12, -1.0, "44100")
			So(info.Fields(), ShouldBeEmpty)
			So(info.String(), ShouldBeEmpty)
		})
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Should clean local paths", func() {
			clean, err := sanitizeMediaTarget(" /music/../music/a.mp3 ")
			So(err, ShouldBeNil)
			So(clean, ShouldEqual, "/music/a.mp3")
		})

		Convey("Should accept http and https", func() {
			for _, u := range []string{"http://a.example/x.mp3", "HTTPS://a.example/live"} {
				clean, err := sanitizeMediaTarget(u)
				So(err, ShouldBeNil)
				So(clean, ShouldEqual, u)
				So(isStream(clean), ShouldBeTrue)
			}
		})

		Convey("Should reject other schemes and control characters", func() {
			for _, bad := range []string{"", "   ", "file:///etc/passwd", "a\x00b", "a\nb"} {
				_, err := sanitizeMediaTarget(bad)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestSession(t *testing.T) {
	Convey("Session", t, func() {
		s := Session{CurrentFile: "/m/a.mp3", Playing: true}

		Convey("Pausing should stop playing and resuming should restore it", func() {
			s.setPaused(true)
			So(s.Playing, ShouldBeFalse)
			So(s.State(), ShouldEqual, StatePaused)

			s.setPaused(false)
			So(s.Playing, ShouldBeTrue)
			So(s.State(), ShouldEqual, StatePlaying)
		})

		Convey("Resuming without a file should not start playing", func() {
			empty := Session{}
			empty.setPaused(false)
			So(empty.Playing, ShouldBeFalse)
		})

		Convey("Progress should stay within 0..1", func() {
			s.Position, s.Duration = 30, 120
			So(s.Progress(), ShouldEqual, 0.25)

			s.Position = 500
			So(s.Progress(), ShouldEqual, 1)

			s.Duration = 0
			So(s.Progress(), ShouldEqual, 0)
		})

		Convey("clone should not share metadata", func() {
			s.Metadata = map[string]string{"title": "A"}
			c := s.clone()
			c.Metadata["title"] = "B"
			So(s.Metadata["title"], ShouldEqual, "A")
		})

		Convey("State should name each value", func() {
			So(StateIdle.String(), ShouldEqual, "idle")
			So(StateLoading.String(), ShouldEqual, "loading")
			So(StatePlaying.String(), ShouldEqual, "playing")
			So(StatePaused.String(), ShouldEqual, "paused")
		})
	})
}
