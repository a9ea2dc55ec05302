package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"pianoarm/config"
	"pianoarm/errs"
	"pianoarm/fingering"
	"pianoarm/notes"
	"pianoarm/pipeline"
	"pianoarm/player"
	"pianoarm/preprocess"
)

func main() {
	args := os.Args[1:]

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	songName, opts, err := parseArgs(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if err := run(songName, opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

type cliOptions struct {
	liftLowNotes      bool
	filterLowNotes    bool
	transposeUpOctave bool
	outputDir         string
	outputDirSet      bool
	configPath        string
	preview           bool
	soundFont         string
	instrument        string
}

// parseArgs mirrors the teacher's own hand-rolled flag loop: no
// third-party flag library, --flag and --flag=value both accepted.
func parseArgs(args []string) (string, cliOptions, error) {
	var (
		songName  string
		opts      cliOptions
		exclusive int
	)
	opts.outputDir = "."

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--transpose-right-octave":
			opts.transposeUpOctave = true
		case arg == "--filter-left-low-notes":
			opts.filterLowNotes = true
			exclusive++
		case arg == "--transpose-left-low-to-range":
			opts.liftLowNotes = true
			exclusive++
		case arg == "--output_dir":
			if i+1 >= len(args) {
				return "", opts, errors.New("--output_dir requires a path")
			}
			opts.outputDir = args[i+1]
			opts.outputDirSet = true
			i++
		case strings.HasPrefix(arg, "--output_dir="):
			opts.outputDir = strings.TrimPrefix(arg, "--output_dir=")
			opts.outputDirSet = true
		case arg == "--config":
			if i+1 >= len(args) {
				return "", opts, errors.New("--config requires a path")
			}
			opts.configPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--preview":
			opts.preview = true
		case arg == "--soundfont":
			if i+1 >= len(args) {
				return "", opts, errors.New("--soundfont requires a path")
			}
			opts.soundFont = args[i+1]
			i++
		case strings.HasPrefix(arg, "--soundfont="):
			opts.soundFont = strings.TrimPrefix(arg, "--soundfont=")
		case arg == "--instrument":
			if i+1 >= len(args) {
				return "", opts, errors.New("--instrument requires a name")
			}
			opts.instrument = args[i+1]
			i++
		case strings.HasPrefix(arg, "--instrument="):
			opts.instrument = strings.TrimPrefix(arg, "--instrument=")
		case arg == "--help" || arg == "-h":
			printUsage()
			os.Exit(0)
		case strings.HasPrefix(arg, "-"):
			return "", opts, fmt.Errorf("unrecognized flag %q", arg)
		default:
			if songName != "" {
				return "", opts, fmt.Errorf("unexpected extra argument %q", arg)
			}
			songName = arg
		}
	}

	if songName == "" {
		return "", opts, errors.New("a song name is required")
	}
	if exclusive > 1 {
		return "", opts, errors.New("--filter-left-low-notes and --transpose-left-low-to-range are mutually exclusive")
	}
	return songName, opts, nil
}

func run(songName string, opts cliOptions) error {
	leftOpts := preprocess.Options{
		LiftLowNotes:   opts.liftLowNotes,
		FilterLowNotes: opts.filterLowNotes,
	}
	rightOpts := preprocess.Options{
		TransposeUpOctave: opts.transposeUpOctave,
	}
	planParams := fingering.DefaultParams()
	outputDir := opts.outputDir

	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		planParams = cfg.Params()
		// CLI flags layer on top of the config file's hand options rather
		// than replacing them — a flag only ever turns an option on.
		leftCfg := cfg.LeftOptions()
		leftOpts.LiftLowNotes = leftOpts.LiftLowNotes || leftCfg.LiftLowNotes
		leftOpts.FilterLowNotes = leftOpts.FilterLowNotes || leftCfg.FilterLowNotes
		if leftOpts.FilterThreshold == 0 {
			leftOpts.FilterThreshold = leftCfg.FilterThreshold
		}
		rightCfg := cfg.RightOptions()
		rightOpts.TransposeUpOctave = rightOpts.TransposeUpOctave || rightCfg.TransposeUpOctave
		if !opts.outputDirSet {
			outputDir = cfg.OutputDir
		}
	}

	out, err := pipeline.Run(context.Background(), pipeline.Input{
		SongName:   songName,
		BaseDir:    ".",
		LeftOpts:   leftOpts,
		RightOpts:  rightOpts,
		PlanParams: planParams,
	})
	if err != nil {
		var e *errs.Error
		if errors.As(err, &e) && e.Kind == errs.IoError {
			return fmt.Errorf("%s (checked %s)", e.Msg, songName)
		}
		return err
	}

	if err := fingering.WriteArtifacts(outputDir, songName, notes.HandLeft, out.Left); err != nil {
		return err
	}
	if err := fingering.WriteArtifacts(outputDir, songName, notes.HandRight, out.Right); err != nil {
		return err
	}

	fmt.Printf("Planned %s: left=%d notes (%d moves), right=%d notes (%d moves)\n",
		songName, len(out.Left.Trajectory), out.Left.MoveCount, len(out.Right.Trajectory), out.Right.MoveCount)
	if out.Left.Infeasible || out.Right.Infeasible {
		fmt.Println("Warning: at least one hand's plan is infeasible under the short-note guard; re-planned without it.")
	}
	fmt.Printf("Artifacts written to %s\n", outputDir)

	if opts.preview {
		if err := player.PreviewTrajectory(out.Merged, opts.soundFont, opts.instrument); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}
	return nil
}

func printUsage() {
	fmt.Println("planfinger")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  planfinger <song_name> [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --transpose-right-octave          Transpose the right hand up one octave")
	fmt.Println("  --filter-left-low-notes           Drop left-hand notes at or below the filter threshold")
	fmt.Println("  --transpose-left-low-to-range      Lift left-hand low notes into playable range")
	fmt.Println("  --output_dir <dir>                Where to write fingering artifacts (default: .)")
	fmt.Println("  --config <file>.yaml              Load planner tuning and hand options from YAML")
	fmt.Println("  --preview                         Play the merged trajectory through FluidSynth after planning")
	fmt.Println("  --soundfont <path>                 SoundFont to use with --preview (default: auto-detect)")
	fmt.Println("  --instrument <name>                 GM instrument voice to use with --preview (default: piano)")
	fmt.Println("  --help, -h                        Show this help")
	fmt.Println()
	fmt.Println("Looks for <song_name>/*left*.mid and <song_name>/*right*.mid in the current directory.")
}
