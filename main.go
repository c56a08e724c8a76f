package main

import (
	"fmt"
	"os"

	"github.com/df07/go-metropolis-raytracer/cmd"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "metropolis-raytracer"
	app.Usage = "render scenes with bidirectional path tracing and Metropolis light transport"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a built-in scene with bidirectional path tracing (bdpt) or Metropolis
light transport (mlt). Settings are read from an optional YAML or TOML config
file; flags override the file.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "YAML or TOML config file",
				},
				cli.StringFlag{
					Name:  "scene, s",
					Value: "cornell",
					Usage: "scene name (see the scenes command)",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 400,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 400,
					Usage: "frame height",
				},
				cli.StringFlag{
					Name:  "integrator, i",
					Value: "bdpt",
					Usage: "bdpt or mlt",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 16,
					Usage: "samples per pixel (bdpt)",
				},
				cli.StringFlag{
					Name:  "strategy",
					Value: "uniform",
					Usage: "path, light or uniform",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: 8,
					Usage: "maximum eye and light subpath depth",
				},
				cli.IntFlag{
					Name:  "chains",
					Value: 8,
					Usage: "number of Markov chains (mlt)",
				},
				cli.IntFlag{
					Name:  "mpp",
					Value: 64,
					Usage: "mutations per pixel (mlt)",
				},
				cli.IntFlag{
					Name:  "bootstrap",
					Value: 100000,
					Usage: "bootstrap samples (mlt)",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Usage: "number of workers (0 = all cpus)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed",
				},
				cli.StringFlag{
					Name:  "lights",
					Value: "power",
					Usage: "light selection for light subpaths: power or uniform",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "render.png",
					Usage: "output image (png, tiff or bmp)",
				},
				cli.StringFlag{
					Name:  "metrics-addr",
					Usage: "serve prometheus metrics on this address while rendering",
				},
			},
			Action: cmd.Render,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
