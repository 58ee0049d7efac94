package main

import (
	"github.com/alecthomas/kong"

	"wineraise.dev/WineRaise/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("WineRaise"), kong.Description("WineRaise is a wine cataloguing backend."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
