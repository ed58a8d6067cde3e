package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/xrgrab/internal/export"
	"github.com/san-kum/xrgrab/internal/storage"
	"github.com/san-kum/xrgrab/internal/viz"
)

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(table.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(table.Times))

	cols := columns
	if len(cols) == 0 {
		for _, c := range table.Columns {
			if strings.HasSuffix(c, "_y") {
				cols = append(cols, c)
			}
		}
	}

	for _, name := range cols {
		data, ok := table.Column(name)
		if !ok {
			return fmt.Errorf("unknown column %q (available: %s)", name, strings.Join(table.Columns, ", "))
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// trajectory draws every tracked path onto one braille canvas.
func trajectory(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(table.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	var prefixes []string
	for _, p := range export.Paths(table) {
		if bodyName == "" || p == bodyName {
			prefixes = append(prefixes, p)
		}
	}
	if len(prefixes) == 0 {
		return fmt.Errorf("nothing to draw for %q", bodyName)
	}

	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.TrajectorySVG(f, table, prefixes, 800, 500); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
		return nil
	}

	paths := make(map[string][]mgl64.Vec3, len(prefixes))
	view := viz.Viewport{MinX: 1e9, MaxX: -1e9, MinY: 1e9, MaxY: -1e9}
	for _, p := range prefixes {
		xs, _ := table.Column(p + "_x")
		ys, _ := table.Column(p + "_y")
		for i := range xs {
			pt := mgl64.Vec3{xs[i], ys[i], 0}
			paths[p] = append(paths[p], pt)
			view.MinX, view.MaxX = min(view.MinX, pt[0]), max(view.MaxX, pt[0])
			view.MinY, view.MaxY = min(view.MinY, pt[1]), max(view.MaxY, pt[1])
		}
	}
	const pad = 0.1
	view.MinX, view.MaxX = view.MinX-pad, view.MaxX+pad
	view.MinY, view.MaxY = view.MinY-pad, view.MaxY+pad

	canvas := viz.NewCanvas(70, 20)
	for _, p := range prefixes {
		view.Path(canvas, paths[p])
	}

	fmt.Printf("trajectory: %s (%s)\n", meta.ID, strings.Join(prefixes, ", "))
	fmt.Printf("x %.2f..%.2f  y %.2f..%.2f\n\n", view.MinX, view.MaxX, view.MinY, view.MaxY)
	fmt.Print(canvas.String())
	return nil
}

func exportEvents(cmd *cobra.Command, args []string) error {
	events, err := storage.New(dataDir).LoadEvents(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}
