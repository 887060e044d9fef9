//go:build !windows

package sweep

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// deadPid returns the pid of a process that has already been reaped.
func deadPid() int {
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		panic(err)
	}
	return cmd.Process.Pid
}

func TestSockets(t *testing.T) {
	Convey("Given a temp directory with sockets", t, func() {
		dir := t.TempDir()
		touch := func(name string) string {
			path := filepath.Join(dir, name)
			So(os.WriteFile(path, nil, 0o600), ShouldBeNil)
			return path
		}

		stale := touch(fmt.Sprintf("sonata-%d.sock", deadPid()))
		own := touch(fmt.Sprintf("sonata-%d.sock", os.Getpid()))
		other := touch("unrelated.sock")

		Convey("Sockets should only remove those of dead processes", func() {
			So(Sockets(dir), ShouldEqual, 1)

			_, err := os.Stat(stale)
			So(os.IsNotExist(err), ShouldBeTrue)

			_, err = os.Stat(own)
			So(err, ShouldBeNil)

			_, err = os.Stat(other)
			So(err, ShouldBeNil)
		})
	})

	Convey("Sockets should tolerate a missing directory", t, func() {
		So(Sockets(filepath.Join(t.TempDir(), "nope")), ShouldEqual, 0)
	})
}
