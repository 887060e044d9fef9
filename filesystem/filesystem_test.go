package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestIsFile(t *testing.T) {
	Convey("IsFile", t, func() {
		SetMemMapFs()

		So(API().MkdirAll("/music/album", 0o755), ShouldBeNil)
		So(API().WriteFile("/music/album/01.flac", []byte("fLaC"), 0o644), ShouldBeNil)

		Convey("Should accept regular files", func() {
			So(IsFile("/music/album/01.flac"), ShouldBeTrue)
		})

		Convey("Should reject directories", func() {
			So(IsFile("/music/album"), ShouldBeFalse)
		})

		Convey("Should reject missing paths", func() {
			So(IsFile("/music/album/02.flac"), ShouldBeFalse)
		})
	})
}
