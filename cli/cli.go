package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/urfave/cli/v3"

	"accd.dev/accd/bus"
	"accd.dev/accd/osmmap"
	"accd.dev/accd/settings"
)

func Handle() {
	shouldExit := true
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Watch and configure an active accd instance",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					interactive()
					return nil
				},
			},
			{
				Name:    "reset",
				Aliases: []string{"r"},
				Usage:   "Reset the settings of an active accd instance",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return reset()
				},
			},
			{
				Name:    "check-map",
				Aliases: []string{"c"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "input-file",
						Usage: "The open street maps pbf file to check",
						Aliases: []string{
							"i",
						},
						Value: "./map.osm.pbf",
					},
					&cli.Float64Flag{
						Name:  "origin-lat",
						Usage: "Latitude of the local plane origin in degrees",
					},
					&cli.Float64Flag{
						Name:  "origin-lon",
						Usage: "Longitude of the local plane origin in degrees",
					},
				},
				Usage: "Verifies that a map file loads and reports its road count",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					m, err := osmmap.Load(cmd.String("input-file"), cmd.Float64("origin-lat"), cmd.Float64("origin-lon"))
					if err != nil {
						return err
					}
					fmt.Printf("loaded %d roads from %s\n", m.RoadCount(), cmd.String("input-file"))
					return nil
				},
			},
		},
		Name:  "Accd",
		Usage: "Start an instance of accd",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "vehicle",
				Usage: "Vehicle backend to drive, 'sim' or 'can'",
			},
			&cli.StringFlag{
				Name:  "can-interface",
				Usage: "The socketcan interface to use with the can backend",
			},
			&cli.StringFlag{
				Name:  "surface-map",
				Usage: "Drivable surface source, 'sim' or 'osm'",
			},
			&cli.StringFlag{
				Name:  "pbf",
				Usage: "The open street maps pbf file for the osm surface source",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyOverrides(cmd)
			shouldExit = false
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}

	if shouldExit {
		os.Exit(0)
	}
}

var overrides []func()

// applyOverrides records daemon flags so they can win over the persisted
// settings once those are loaded, without being saved.
func applyOverrides(cmd *cli.Command) {
	for _, flag := range []struct {
		name  string
		apply func(string)
	}{
		{"vehicle", func(v string) { settings.Settings.Vehicle = v }},
		{"can-interface", func(v string) { settings.Settings.CanInterface = v }},
		{"surface-map", func(v string) { settings.Settings.SurfaceMap = v }},
		{"pbf", func(v string) { settings.Settings.PbfPath = v }},
	} {
		if cmd.IsSet(flag.name) {
			value := cmd.String(flag.name)
			apply := flag.apply
			overrides = append(overrides, func() { apply(value) })
		}
	}
}

// ApplySettingsOverrides replays recorded daemon flags over the loaded
// settings.
func ApplySettingsOverrides() {
	for _, apply := range overrides {
		apply()
	}
}

func reset() error {
	prompt := promptui.Select{
		Label: "Select Reset Action",
		Items: []string{"Load default settings", "Load recommended settings", "Cancel"},
	}

	_, result, err := prompt.Run()
	if err != nil {
		return err
	}

	pub := bus.NewPublisher[bus.Command](bus.ACC_IN)
	switch result {
	case "Load default settings":
		return pub.Send(bus.Command{Command: bus.CommandLoadDefaultSettings})
	case "Load recommended settings":
		return pub.Send(bus.Command{Command: bus.CommandLoadRecommendedSettings})
	}
	return nil
}
