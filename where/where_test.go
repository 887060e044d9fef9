package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/sonata-cli/sonata/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Socket()", func() {
			Convey("Should live in the temp directory", func() {
				So(filepath.Dir(Socket(42)), ShouldEqual, Temp())
			})

			Convey("Should differ between processes", func() {
				So(Socket(1), ShouldNotEqual, Socket(2))
				So(filepath.Base(Socket(1234)), ShouldEqual, "sonata-1234.sock")
			})
		})
	})
}
