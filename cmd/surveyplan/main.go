package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/skyroutex/surveyplanner/core"
	"github.com/skyroutex/surveyplanner/internal/export"
	"github.com/skyroutex/surveyplanner/internal/playback"
	"github.com/skyroutex/surveyplanner/model"
)

func main() {
	surveyPath := flag.String("survey", "", "path to a survey definition (.json, .yaml)")
	outPath := flag.String("out", "", "write the mission plan as JSON to this path (default stdout)")
	kmlPath := flag.String("kml", "", "also write the plan as KML to this path")
	validateOnly := flag.Bool("validate", false, "validate the survey config and exit")
	rehearse := flag.Bool("rehearse", false, "step through the planned mission after planning")
	accelerated := flag.Bool("accelerated", true, "rehearse in accelerated mode (vs real-time)")
	speed := flag.Float64("speed", 0, "cruise speed in m/s for rehearsal (default: planner cruise speed)")

	flag.Parse()

	if *surveyPath == "" {
		fmt.Fprintln(os.Stderr, "surveyplan: -survey is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := core.LoadSurveyConfigFile(*surveyPath)
	if err != nil {
		fatal(err)
	}

	if *validateOnly {
		result := core.ValidateConfig(cfg)
		printJSON(os.Stdout, result)
		if !result.Valid {
			os.Exit(1)
		}
		return
	}

	plan, err := core.NewPlanner().Plan(cfg)
	if err != nil {
		var cfgErr *core.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, "surveyplan: invalid survey config:")
			for _, msg := range cfgErr.Errors {
				fmt.Fprintf(os.Stderr, "  - %s\n", msg)
			}
			os.Exit(1)
		}
		fatal(err)
	}

	printSummary(os.Stderr, plan)

	if *outPath == "" {
		printJSON(os.Stdout, plan)
	} else {
		f, err := os.Create(*outPath)
		if err != nil {
			fatal(err)
		}
		printJSON(f, plan)
		if err := f.Close(); err != nil {
			fatal(err)
		}
	}

	if *kmlPath != "" {
		f, err := os.Create(*kmlPath)
		if err != nil {
			fatal(err)
		}
		if err := export.WriteKML(f, plan); err != nil {
			f.Close()
			fatal(err)
		}
		if err := f.Close(); err != nil {
			fatal(err)
		}
	}

	if *rehearse {
		runRehearsal(plan, *speed, *accelerated)
	}
}

func runRehearsal(plan *model.MissionPlan, speed float64, accelerated bool) {
	mode := playback.RealTime
	if accelerated {
		mode = playback.Accelerated
	}

	player := playback.NewPlayer(speed, mode)
	player.AddListener(func(s playback.Step) {
		fmt.Fprintf(os.Stderr, "t=%8.1fs  seq=%4d  line=%3d  lat=%10.6f lon=%11.6f  leg=%6.1fm\n",
			s.ElapsedSeconds,
			s.Waypoint.Sequence,
			s.Waypoint.LineIndex,
			s.Waypoint.Position.Lat,
			s.Waypoint.Position.Lon,
			s.LegMeters,
		)
	})

	<-player.Run(context.Background(), plan.Waypoints)
}

func printSummary(w *os.File, plan *model.MissionPlan) {
	fmt.Fprintf(w, "mission:   %s\n", plan.Config.Name)
	fmt.Fprintf(w, "lines:     %d\n", plan.Stats.LineCount)
	fmt.Fprintf(w, "waypoints: %d (%d valid, %d blocked)\n",
		plan.Stats.TotalWaypoints, plan.Stats.ValidCount, plan.Stats.BlockedCount)
	fmt.Fprintf(w, "distance:  %.1f m\n", plan.Stats.TotalDistanceMeters)
	fmt.Fprintf(w, "flight:    %.1f s\n", plan.Stats.FlightTimeSeconds)
	fmt.Fprintf(w, "battery:   %.1f %%\n", plan.Stats.BatteryPercent)
	fmt.Fprintf(w, "coverage:  %.1f sq m\n", plan.Stats.CoverageAreaSqMeters)
	if !plan.Limit.Valid {
		fmt.Fprintf(w, "WARNING: %d waypoints exceed the firmware limit of %d\n",
			plan.Limit.Count, plan.Limit.Max)
	} else if plan.Limit.Warning != "" {
		fmt.Fprintf(w, "WARNING: %s\n", plan.Limit.Warning)
	}
}

func printJSON(w *os.File, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "surveyplan: %v\n", err)
	os.Exit(1)
}
