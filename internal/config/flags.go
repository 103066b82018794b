package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log", "", "Write logs to this file")
	flagFPS      = flag.Int("fps", 0, "Target FPS")
	flagSamples  = flag.Int("samples", 0, "Multisample count per pixel (1, 4, 9 or 16)")
	flagVertices = flag.Int("vertices", 0, "Boulder vertex count (0 = random in [100, 500])")
	flagChunk    = flag.Int("chunk", 0, "Vertices per fragment (0 = random)")
	flagSeed     = flag.Uint64("seed", 0, "Random seed (0 = random)")
	flagSolid    = flag.String("solid", "", "Fracture this GLB instead of a generated boulder")
	flagFeed     = flag.String("feed", "", "Drive the animation from a YAML feed")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagFPS > 0 {
		cfg.Graphics.FPS = *flagFPS
	}
	if *flagSamples > 0 {
		cfg.Graphics.Samples = *flagSamples
	}
	if *flagVertices > 0 {
		cfg.Boulder.Vertices = *flagVertices
	}
	if *flagChunk != 0 {
		cfg.Boulder.Chunk = *flagChunk
	}
	if *flagSeed != 0 {
		cfg.Boulder.Seed = *flagSeed
	}
	if *flagSolid != "" {
		cfg.Boulder.Source = *flagSolid
	}
	if *flagFeed != "" {
		cfg.Feed.Path = *flagFeed
	}
}
