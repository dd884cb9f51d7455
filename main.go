package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/raushankrgupta/virtual-try-on/api"
	"github.com/raushankrgupta/virtual-try-on/cmd"
)

var version = "dev"

func main() {
	api.Version = version
	root := cmd.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
