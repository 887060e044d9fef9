package engine

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/sonata-cli/sonata/filesystem"
)

func newTestPlayer(socketPath string) *Player {
	opts := DefaultOptions()
	opts.SocketPath = socketPath
	opts.ConnectTimeout = 200 * time.Millisecond
	opts.ReadTimeout = 300 * time.Millisecond
	opts.LoadGrace = time.Hour
	return New(opts)
}

func TestPlayer(t *testing.T) {
	Convey("Given a player connected to an engine", t, func() {
		filesystem.SetMemMapFs()
		So(filesystem.API().WriteFile("/music/a.mp3", []byte("ID3"), 0o644), ShouldBeNil)

		fe := newFakeEngine()
		p := newTestPlayer(fe.path)

		Reset(func() {
			p.Cleanup()
			fe.close()
			filesystem.SetOsFs()
		})

		Convey("A fresh player should be idle with the configured volume", func() {
			s := p.Snapshot()
			So(s.HasFile(), ShouldBeFalse)
			So(s.Playing, ShouldBeFalse)
			So(s.Volume, ShouldEqual, 70)
			So(s.State(), ShouldEqual, StateIdle)
		})

		Convey("An idle engine without a file should not count as a finished track", func() {
			p.UpdateState()
			So(p.IsTrackFinished(), ShouldBeFalse)
		})

		Convey("PlayFile should load an existing file", func() {
			So(p.PlayFile("/music/a.mp3"), ShouldBeTrue)

			loads := fe.sent("loadfile")
			So(loads, ShouldHaveLength, 1)
			So(loads[0], ShouldResemble, []any{"loadfile", "/music/a.mp3", "replace"})

			s := p.Snapshot()
			So(s.CurrentFile, ShouldEqual, "/music/a.mp3")
			So(s.Playing, ShouldBeTrue)
			So(s.Paused, ShouldBeFalse)
			So(s.State(), ShouldEqual, StateLoading)

			Convey("and polls should follow the engine until it goes idle", func() {
				fe.set("duration", 180.0)

				var positions []float64
				for _, pos := range []float64{10, 20, 30} {
					fe.set("time-pos", pos)
					p.UpdateState()
					positions = append(positions, p.Snapshot().Position)
				}

				So(positions, ShouldResemble, []float64{10, 20, 30})
				So(p.Snapshot().Duration, ShouldEqual, 180.0)
				So(p.Snapshot().State(), ShouldEqual, StatePlaying)
				So(p.IsTrackFinished(), ShouldBeFalse)

				fe.set("idle-active", true)
				p.UpdateState()

				So(p.Snapshot().Playing, ShouldBeFalse)
				So(p.IsTrackFinished(), ShouldBeTrue)
			})

			Convey("and a malformed duration should keep the cached one", func() {
				fe.set("duration", 180.0)
				p.UpdateState()
				So(p.Snapshot().Duration, ShouldEqual, 180.0)

				fe.set("duration", "three minutes")
				p.UpdateState()
				So(p.Snapshot().Duration, ShouldEqual, 180.0)
			})

			Convey("and a stale idle report should be ignored while loading", func() {
				fe.set("idle-active", true)
				p.UpdateState()

				So(p.IsTrackFinished(), ShouldBeFalse)
				So(p.Snapshot().Loading, ShouldBeTrue)

				Convey("until the grace period has passed", func() {
					p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
					p.UpdateState()

					So(p.IsTrackFinished(), ShouldBeTrue)
					So(p.Snapshot().Loading, ShouldBeFalse)
				})
			})

			Convey("and TogglePause should flip the pause state each time", func() {
				So(p.TogglePause(), ShouldBeTrue)
				s := p.Snapshot()
				So(s.Paused, ShouldBeTrue)
				So(s.Playing, ShouldBeFalse)

				So(p.TogglePause(), ShouldBeFalse)
				s = p.Snapshot()
				So(s.Paused, ShouldBeFalse)
				So(s.Playing, ShouldBeTrue)

				So(fe.sent("cycle"), ShouldHaveLength, 2)

				p.UpdateState()
				So(p.Snapshot().Paused, ShouldBeFalse)
			})

			Convey("and Stop should clear the track", func() {
				fe.set("time-pos", 42.0)
				fe.set("duration", 180.0)
				p.UpdateState()

				p.Stop()
				p.UpdateState()

				s := p.Snapshot()
				So(s.CurrentFile, ShouldBeEmpty)
				So(s.Position, ShouldEqual, 0)
				So(s.Duration, ShouldEqual, 0)
				So(s.Playing, ShouldBeFalse)
				So(p.IsTrackFinished(), ShouldBeFalse)
			})

			Convey("and Stop should clear the track even if the engine is gone", func() {
				fe.dropConnections()
				fe.setSilent(true)

				p.Stop()

				So(p.Snapshot().CurrentFile, ShouldBeEmpty)
			})
		})

		Convey("PlayFile should refuse a missing file without contacting the engine", func() {
			So(p.PlayFile("/music/missing.mp3"), ShouldBeFalse)
			So(fe.sent("loadfile"), ShouldBeEmpty)
			So(p.Snapshot().HasFile(), ShouldBeFalse)
		})

		Convey("PlayFile should refuse empty and malformed targets", func() {
			So(p.PlayFile(""), ShouldBeFalse)
			So(p.PlayFile("/music/a.mp3\n--volume=200"), ShouldBeFalse)
			So(p.PlayFile("ftp://example.com/a.mp3"), ShouldBeFalse)
			So(fe.sent("loadfile"), ShouldBeEmpty)
		})

		Convey("PlayFile should pass http streams through", func() {
			So(p.PlayFile("https://radio.example.com/live"), ShouldBeTrue)
			So(p.Snapshot().CurrentFile, ShouldEqual, "https://radio.example.com/live")
		})

		Convey("PlayFile should leave the session alone when the engine rejects the load", func() {
			fe.fail("loadfile", "error running command")

			So(p.PlayFile("/music/a.mp3"), ShouldBeFalse)
			So(p.Snapshot().HasFile(), ShouldBeFalse)
		})

		Convey("SetVolume should clamp into 0..100", func() {
			for _, tc := range []struct{ in, want int }{{150, 100}, {-5, 0}, {55, 55}} {
				p.SetVolume(tc.in)
				So(p.Snapshot().Volume, ShouldEqual, tc.want)

				sets := fe.sent("set_property")
				So(sets[len(sets)-1], ShouldResemble, []any{"set_property", "volume", float64(tc.want)})
			}
		})

		Convey("ToggleMute should return the new mute state", func() {
			So(p.ToggleMute(), ShouldBeTrue)
			So(p.Snapshot().Muted, ShouldBeTrue)
			So(p.ToggleMute(), ShouldBeFalse)
			So(p.Snapshot().Muted, ShouldBeFalse)
		})

		Convey("Seek should send an absolute, non-negative position", func() {
			So(p.Seek(-3), ShouldBeTrue)
			So(p.Seek(42), ShouldBeTrue)

			seeks := fe.sent("seek")
			So(seeks, ShouldHaveLength, 2)
			So(seeks[0], ShouldResemble, []any{"seek", 0.0, "absolute"})
			So(seeks[1], ShouldResemble, []any{"seek", 42.0, "absolute"})
		})

		Convey("FormattedMetadata should read tags regardless of key case", func() {
			So(p.PlayFile("/music/a.mp3"), ShouldBeTrue)
			fe.set("metadata", map[string]any{"TITLE": "Song", "Artist": "Someone", "album": "Record"})
			p.UpdateState()

			meta := p.FormattedMetadata()
			So(meta, ShouldResemble, Metadata{Title: "Song", Artist: "Someone", Album: "Record"})
		})

		Convey("FormattedMetadata should fall back to the file name", func() {
			So(p.PlayFile("/music/a.mp3"), ShouldBeTrue)
			p.UpdateState()

			So(p.FormattedMetadata().Title, ShouldEqual, "a.mp3")
		})

		Convey("AudioInfo should omit values the engine cannot report", func() {
			fe.set("audio-codec-name", "flac")
			fe.set("audio-bitrate", 921400.0)

			info := p.AudioInfo()
			So(info.Fields(), ShouldResemble, map[string]string{"format": "FLAC", "bitrate": "921 kbps"})
			So(info.String(), ShouldEqual, "FLAC · 921 kbps")
		})

		Convey("ToggleMute should be its own inverse under concurrency", func() {
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					p.ToggleMute()
				}()
			}
			wg.Wait()

			So(p.Snapshot().Muted, ShouldBeFalse)
			So(fe.sent("set_property"), ShouldHaveLength, 10)
		})

		Convey("A poll against a hung engine should wait out one read timeout only", func() {
			So(p.PlayFile("/music/a.mp3"), ShouldBeTrue)
			fe.set("time-pos", 4.0)
			p.UpdateState()

			fe.setSilent(true)
			polled := len(fe.sent("get_property"))

			start := time.Now()
			p.UpdateState()
			So(time.Since(start), ShouldBeLessThan, 600*time.Millisecond)
			So(fe.sent("get_property"), ShouldHaveLength, polled+1)
			So(p.Snapshot().Position, ShouldEqual, 4.0)

			start = time.Now()
			info := p.AudioInfo()
			So(time.Since(start), ShouldBeLessThan, 600*time.Millisecond)
			So(info.Fields(), ShouldBeEmpty)
		})

		Convey("The player should reconnect after the engine drops the connection", func() {
			So(p.PlayFile("/music/a.mp3"), ShouldBeTrue)
			fe.set("time-pos", 5.0)
			p.UpdateState()
			So(p.Snapshot().Position, ShouldEqual, 5.0)

			fe.dropConnections()
			fe.set("time-pos", 9.0)

			So(p.SetVolume(40), ShouldBeFalse)
			So(p.Snapshot().Volume, ShouldEqual, 40)

			So(p.SetVolume(50), ShouldBeTrue)
			So(fe.connections(), ShouldEqual, 1)

			p.UpdateState()
			So(p.Snapshot().Position, ShouldEqual, 9.0)
		})

		Convey("Cleanup should ask a connected engine to quit", func() {
			p.UpdateState()
			p.Cleanup()

			So(fe.sent("quit"), ShouldHaveLength, 1)

			Convey("and a second Cleanup should not ask again", func() {
				p.Cleanup()
				So(fe.sent("quit"), ShouldHaveLength, 1)
			})
		})

		Convey("Concurrent use should never interleave exchanges", func() {
			So(p.PlayFile("/music/a.mp3"), ShouldBeTrue)
			fe.set("time-pos", 5.0)
			fe.set("duration", 100.0)

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					p.UpdateState()
				}()
				go func(v int) {
					defer wg.Done()
					p.SetVolume(v)
				}(i * 10)
			}
			wg.Wait()

			s := p.Snapshot()
			So(s.Position, ShouldEqual, 5.0)
			So(s.Duration, ShouldEqual, 100.0)
			So(s.Volume, ShouldBeBetweenOrEqual, 0, 100)
		})
	})

	Convey("Given a player whose engine is unreachable", t, func() {
		fe := newFakeEngine()
		path := fe.path
		fe.close()

		p := newTestPlayer(path)
		Reset(p.Cleanup)

		Convey("Commands should fail fast and leave the cache alone", func() {
			start := time.Now()

			So(p.Seek(10), ShouldBeFalse)
			p.UpdateState()

			So(time.Since(start), ShouldBeLessThan, 2*time.Second)

			s := p.Snapshot()
			So(s.Position, ShouldEqual, 0)
			So(s.Volume, ShouldEqual, 70)
		})

		Convey("SetVolume should still store the clamped value", func() {
			So(p.SetVolume(300), ShouldBeFalse)
			So(p.Snapshot().Volume, ShouldEqual, 100)
		})

		Convey("Cleanup should be safe without Start", func() {
			So(func() { p.Cleanup(); p.Cleanup() }, ShouldNotPanic)
		})
	})
}
