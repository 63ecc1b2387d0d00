// Package main implements the gones NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gones/internal/app"
	"gones/internal/version"
)

func main() {
	var (
		romFile    = flag.String("rom", "", "Path to NES ROM file (optional for GUI mode)")
		configFile = flag.String("config", "", "Path to configuration file")
		debug      = flag.Bool("debug", false, "Enable debug mode")
		nogui      = flag.Bool("nogui", false, "Run without GUI (headless mode)")
		frames     = flag.Int("frames", 120, "Number of frames to run in headless mode")
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *version {
		printVersion()
		os.Exit(0)
	}

	setupGracefulShutdown()

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	application, err := app.NewApplicationWithMode(configPath, *nogui)
	if err != nil {
		log.Fatalf("failed to create application: %v", err)
	}

	if *nogui {
		config := application.GetConfig()
		config.Video.Backend = "headless"
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	if *debug {
		config := application.GetConfig()
		config.UpdateDebug(true, true, true)
		application.ApplyDebugSettings()
	}

	if *romFile != "" {
		if err := application.LoadROM(*romFile); err != nil {
			log.Printf("failed to load ROM %q: %v", *romFile, err)
			os.Exit(1)
		}

		if *debug {
			application.ApplyDebugSettings()
		}
	}

	if *nogui {
		if *romFile == "" {
			log.Fatal("-rom is required in -nogui mode")
		}
		runHeadlessMode(application, *frames)
		return
	}

	if err := runGUIMode(application); err != nil {
		log.Fatalf("gui mode failed: %v", err)
	}
}

// runGUIMode runs the full windowed application via the graphics backend.
func runGUIMode(application *app.Application) error {
	if err := application.Run(); err != nil {
		return fmt.Errorf("application run failed: %w", err)
	}
	return nil
}

// runHeadlessMode steps the bus for a fixed number of frames without a
// window, for scripted use (CI smoke runs, trace capture via NES_CPU_DEBUG).
func runHeadlessMode(application *app.Application, frames int) {
	bus := application.GetBus()
	if bus == nil {
		log.Fatal("bus not initialized")
	}

	for frame := 0; frame < frames; frame++ {
		bus.Frame()
	}

	log.Printf("ran %d frames (%d cpu cycles)", frames, bus.GetCycleCount())
}

// setupGracefulShutdown exits cleanly on SIGINT/SIGTERM.
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		os.Exit(0)
	}()
}

func printVersion() {
	version.PrintBuildInfo()
}

func printUsage() {
	fmt.Println("gones - Go NES Emulator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones [options]                    # Start GUI mode without ROM")
	fmt.Println("  gones -rom <file> [options]        # Start with ROM loaded")
	fmt.Println("  gones -nogui -rom <file> [options] # Run headless mode")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("ENVIRONMENT:")
	fmt.Println("  NES_CPU_DEBUG     enables per-instruction CPU trace")
	fmt.Println("  NES_PPU_DEBUG     enables the palette overlay")
	fmt.Println("  NES_APU_CHANNELS  bitmask selecting which APU channels mix (default all five)")
	fmt.Println()
	fmt.Println("CONTROLS (default):")
	fmt.Println("  W / A / S / D     D-Pad (arrow keys too)")
	fmt.Println("  J                 A Button")
	fmt.Println("  K                 B Button")
	fmt.Println("  Space             Select")
	fmt.Println("  Return            Start")
	fmt.Println("  1-8               Player 2: Up, Down, Left, Right, A, B, Start, Select")
	fmt.Println("  F1-F10            Save state to slot 0-9")
	fmt.Println("  Esc (twice)       Quit")
	fmt.Println("  No key loads a state, resets or pauses.")
	fmt.Println()
	fmt.Println("EXIT CODES:")
	fmt.Println("  0  normal exit")
	fmt.Println("  1  unusable ROM (bad magic, unsupported mapper, PAL)")
}
