package engine

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestChannel(t *testing.T) {
	Convey("Given a channel to a running engine", t, func() {
		fe := newFakeEngine()
		ch := NewChannel(fe.path, time.Second, 300*time.Millisecond)

		Reset(func() {
			ch.Close()
			fe.close()
		})

		Convey("Connect should be lazy", func() {
			So(ch.Connected(), ShouldBeFalse)

			fe.set("time-pos", 3.0)
			resp, err := ch.Send(NewCommand("get_property", "time-pos"))
			So(err, ShouldBeNil)
			So(resp.Data, ShouldEqual, 3.0)
			So(ch.Connected(), ShouldBeTrue)
		})

		Convey("Send should skip events that arrive before the reply", func() {
			fe.set("duration", 180.0)
			fe.setNoise(
				`{"event":"property-change","id":1,"name":"pause","data":true}`,
				`{"event":"end-file","reason":"error","error":"no audio"}`,
				``,
				`not json at all`,
			)

			resp, err := ch.Send(NewCommand("get_property", "duration"))
			So(err, ShouldBeNil)
			So(resp.OK(), ShouldBeTrue)
			So(resp.Data, ShouldEqual, 180.0)
		})

		Convey("Send should report rejected commands as failed responses", func() {
			resp, err := ch.Send(NewCommand("get_property", "no-such-thing"))
			So(err, ShouldBeNil)
			So(resp.OK(), ShouldBeFalse)
			So(resp.Reason, ShouldEqual, "property unavailable")
		})

		Convey("Send should time out and drop the connection when no reply comes", func() {
			fe.setSilent(true)

			start := time.Now()
			_, err := ch.Send(NewCommand("get_property", "pause"))
			So(errors.Is(err, ErrTimeout), ShouldBeTrue)
			So(time.Since(start), ShouldBeLessThan, 2*time.Second)
			So(ch.Connected(), ShouldBeFalse)
		})

		Convey("Send should accept a complete reply missing its newline at the deadline", func() {
			fe.set("pause", true)
			fe.setUnterminated(true)

			resp, err := ch.Send(NewCommand("get_property", "pause"))
			So(err, ShouldBeNil)
			So(resp.Data, ShouldEqual, true)

			Convey("and the late newline should not disturb the next exchange", func() {
				fe.setUnterminated(false)
				fe.set("volume", 55.0)

				resp, err := ch.Send(NewCommand("get_property", "volume"))
				So(err, ShouldBeNil)
				So(resp.Data, ShouldEqual, 55.0)
			})
		})

		Convey("After the engine drops the connection", func() {
			_, err := ch.Send(NewCommand("get_property", "pause"))
			So(err, ShouldBeNil)

			fe.dropConnections()

			Convey("the next Send should fail and invalidate the channel", func() {
				_, err := ch.Send(NewCommand("get_property", "pause"))
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrIO) || errors.Is(err, ErrTimeout), ShouldBeTrue)
				So(ch.Connected(), ShouldBeFalse)

				Convey("and the one after should reconnect", func() {
					resp, err := ch.Send(NewCommand("get_property", "pause"))
					So(err, ShouldBeNil)
					So(resp.OK(), ShouldBeTrue)
					So(fe.connections(), ShouldEqual, 1)
				})
			})
		})

		Convey("Invalidate should force a reconnect transparently", func() {
			_, err := ch.Send(NewCommand("get_property", "pause"))
			So(err, ShouldBeNil)

			ch.Invalidate()
			So(ch.Connected(), ShouldBeFalse)

			resp, err := ch.Send(NewCommand("get_property", "pause"))
			So(err, ShouldBeNil)
			So(resp.OK(), ShouldBeTrue)
		})
	})

	Convey("Given a channel to a missing socket", t, func() {
		ch := NewChannel(filepath.Join(t.TempDir(), "missing.sock"), 100*time.Millisecond, 100*time.Millisecond)

		Convey("Connect should report ErrUnavailable", func() {
			err := ch.Connect()
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
		})

		Convey("Send should report ErrUnavailable without hanging", func() {
			_, err := ch.Send(NewCommand("stop"))
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
		})
	})
}
