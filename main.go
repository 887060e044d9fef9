// Package main is the entry point for the sonata application.
package main

import (
	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/cmd"
	"github.com/sonata-cli/sonata/config"
	"github.com/sonata-cli/sonata/internal/sweep"
	"github.com/sonata-cli/sonata/log"
	"github.com/sonata-cli/sonata/where"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Sockets left behind by instances that were killed.
	sweep.Collect(where.Temp())

	cmd.Execute()
}
