package main

import (
	"log/slog"

	"accd.dev/accd/cli"
	"accd.dev/accd/params"
	"accd.dev/accd/settings"
)

func main() {
	cli.Handle()

	slog.SetLogLoggerLevel(slog.LevelError)
	params.EnsureParamDirectories()
	settings.Settings.LoadWithRetries(10)
	cli.ApplySettingsOverrides()

	d := newDaemon()
	defer d.Close()
	d.Run()
}
