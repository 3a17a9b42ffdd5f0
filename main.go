package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/mrigankad-go/phototrace/pkg/anim"
	"github.com/mrigankad-go/phototrace/pkg/renderer"
	"github.com/mrigankad-go/phototrace/pkg/rterr"
	"github.com/mrigankad-go/phototrace/pkg/scheme"
	"github.com/mrigankad-go/phototrace/pkg/target"
)

// Config holds all the configuration for the raytracer.
type Config struct {
	SchemePath string
	Output     string
	NumWorkers int
	TileSize   int
	Help       bool
	CPUProfile string
}

func main() {
	config := parseFlags()
	if config.Help {
		showHelp()
		return
	}

	if config.CPUProfile != "" {
		f, err := os.Create(config.CPUProfile)
		if err != nil {
			fmt.Printf("Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	fmt.Println("Starting phototrace...")
	startTime := time.Now()

	if err := run(config); err != nil {
		reportAndExit(err)
	}

	fmt.Printf("Render completed in %v\n", time.Since(startTime))
}

// run loads the Scheme document and dispatches to the animation coordinator
// or a single-frame render, depending on render_info.animation.
func run(config Config) error {
	data, err := os.ReadFile(config.SchemePath)
	if err != nil {
		return rterr.Wrap(rterr.AssetIoError, fmt.Sprintf("read scheme file %q", config.SchemePath), err)
	}

	sch, err := scheme.Decode(data)
	if err != nil {
		return err
	}

	members, err := sch.BuildMembers()
	if err != nil {
		return err
	}

	logger := renderer.NewDefaultLogger()
	workers := anim.WorkerOptions{NumWorkers: config.NumWorkers, TileSize: config.TileSize}

	if sch.RenderInfo.Animation {
		fmt.Println("Running animation pipeline...")
		return anim.RunAnimation(sch, members, workers, logger)
	}

	fmt.Println("Rendering single frame...")
	pixels, err := anim.RenderSingleFrame(sch, members, workers, nil, logger, func(samplesDone int) {
		fmt.Printf("\rsample %d/%d", samplesDone, sch.RenderInfo.SampsPerPix)
	})
	if err != nil {
		return err
	}
	fmt.Println()

	outPath := config.Output
	if outPath == "" {
		outPath = "render.png"
	}
	if err := target.WritePNG(outPath, pixels, sch.RenderInfo.Width, sch.RenderInfo.Height); err != nil {
		return rterr.Wrap(rterr.AssetIoError, fmt.Sprintf("write output image %q", outPath), err)
	}
	fmt.Printf("Render saved as %s\n", outPath)
	return nil
}

// reportAndExit prints a Scheme/asset/GPU failure's reason and exits
// non-zero. Most errors run returns are rterr.Error values carrying a Kind
// and cause; an unknown easing name and the animation path's frame-directory
// and frame-PNG write failures arrive as plain errors and print as-is.
func reportAndExit(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.SchemePath, "scheme", "", "Path to the scheme JSON file describing the scene and render settings")
	flag.StringVar(&config.Output, "output", "render.png", "Output PNG path for single-frame renders (animation frames go to anim_frames/)")
	flag.IntVar(&config.NumWorkers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.IntVar(&config.TileSize, "tile-size", 0, "CPU render tile size in pixels (0 = default)")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.StringVar(&config.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	flag.Parse()
	return config
}

// showHelp displays help information.
func showHelp() {
	fmt.Println("phototrace")
	fmt.Println("Usage: phototrace -scheme=<path-to-scheme.json> [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  phototrace -scheme=scenes/cornell.json")
	fmt.Println("  phototrace -scheme=scenes/orbit.json -workers=8")
	fmt.Println()
	fmt.Println("Single-frame renders are written to -output (default render.png).")
	fmt.Println("Animated scenes (render_info.animation=true) are written to")
	fmt.Println("anim_frames/{n}.png, one file per frame starting at 1.")
}
