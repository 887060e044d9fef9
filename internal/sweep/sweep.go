// Package sweep removes runtime leftovers of instances that did not exit cleanly.
package sweep

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/sonata-cli/sonata/constant"
	"github.com/sonata-cli/sonata/log"
)

var socketPattern = regexp.MustCompile(`^` + constant.Sonata + `-(\d+)\.sock$`)

// Sockets deletes IPC sockets in dir whose owning process is gone.
// Sockets are kernel objects, so this works on the OS filesystem directly.
func Sockets(dir string) (removed int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	self := os.Getpid()
	for _, entry := range entries {
		match := socketPattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}

		pid, err := strconv.Atoi(match[1])
		if err != nil || pid == self || alive(pid) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Debugf("sweep %s: %v", path, err)
			continue
		}

		log.Debugf("swept stale socket %s", path)
		removed++
	}

	return removed
}

// Collect sweeps dir in the background.
func Collect(dir string) {
	go Sockets(dir)
}
