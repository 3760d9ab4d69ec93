// Package main is the entry point for kdplayer.
package main

import (
	"github.com/qkd/kdplayer/cmd"
	"github.com/qkd/kdplayer/config"
	"github.com/qkd/kdplayer/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
