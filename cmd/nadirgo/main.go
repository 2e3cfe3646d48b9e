package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/cjeanneret/NadirGo/internal/config"
	"github.com/cjeanneret/NadirGo/internal/debug"
	"github.com/cjeanneret/NadirGo/internal/logic/geometry"
	"github.com/cjeanneret/NadirGo/internal/logic/plan"
	"github.com/cjeanneret/NadirGo/internal/render"
	"github.com/cjeanneret/NadirGo/internal/web"
)

// overrideFlags lists the dataset flags; minPositive ones reject 0.
var overrideFlags = []struct {
	name        string
	usage       string
	minPositive bool
}{
	{"height", "override flight height in meters", true},
	{"overlap", "override overlap ratio [0,1)", false},
	{"sidelap", "override sidelap ratio [0,1)", false},
	{"scan_x", "override scan dimension X in meters", false},
	{"scan_y", "override scan dimension Y in meters", false},
	{"exposure_ms", "override exposure time in milliseconds", true},
}

// overrides maps the dataset flags given on the command line to their value.
// Flags left out keep the config value.
type overrides map[string]float64

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	registerOverrideFlags(flag.CommandLine)
	format := flag.String("format", "table", "output format: table or json")
	plotPath := flag.String("plot", "", "write the flight path plot to this .png or .svg file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		log.Fatalf("invalid config path: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	o, err := overridesFromFlags(flag.CommandLine)
	if err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	cfg.Dataset = applyOverrides(cfg.Dataset, o)
	if err := cfg.Dataset.Validate(); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	if *format != "table" && *format != "json" {
		log.Fatalf("unsupported output format: %q", *format)
	}

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.PrintStruct("Camera", cfg.Camera)
	debug.PrintStruct("Dataset", cfg.Dataset)

	if port := webPort.port(); port > 0 {
		webAddr := fmt.Sprintf(":%d", port)
		broadcaster := web.NewStatusBroadcaster()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

		planner := web.Planner{
			Camera:          cfg.Camera,
			Defaults:        cfg.Dataset,
			AllowedMotionPx: cfg.Defaults.AllowedMotionPx,
		}
		limiter := rate.NewLimiter(rate.Limit(cfg.Web.RequestsPerSecond), cfg.Web.Burst)
		srv := web.NewServer(webAddr, broadcaster, planner, limiter)
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("web server: %v", err)
		}
		return
	}

	if err := executePlan(os.Stdout, cfg, *format, *plotPath); err != nil {
		log.Fatalf("plan failed: %v", err)
	}
}

// executePlan computes the photo plan for cfg and writes it to w.
// If plotPath is set, the flight path is also rendered to that file.
func executePlan(w io.Writer, cfg *config.Config, format, plotPath string) error {
	debug.Step(1, "Computing camera geometry")
	footprint := geometry.ImageFootprint(cfg.Camera, cfg.Dataset.Height)
	fov := geometry.NewFieldOfView(cfg.Camera)
	debug.Value("Focal length (mm)", geometry.FocalLengthMm(cfg.Camera))
	debug.Value("Footprint (m)", footprint)
	debug.Value("GSD (m/px)", geometry.GroundSamplingDistance(cfg.Camera, cfg.Dataset.Height))
	debug.Value("Horizontal FOV", fov.Horizontal())
	debug.Value("Vertical FOV", fov.Vertical())

	debug.Step(2, "Calculating grid plan")
	grid, err := plan.CalculateGridPlan(cfg.Camera, cfg.Dataset, cfg.Defaults.AllowedMotionPx)
	if err != nil {
		return err
	}
	summary := plan.Summarize(grid.Waypoints)

	debug.Summary("Grid Plan Summary")
	debug.Grid(grid.Columns, grid.Rows, len(grid.Waypoints))
	debug.Value("Ideal spacing (m)", grid.IdealSpacing)
	debug.Value("Actual spacing (m)", grid.ActualSpacing)
	debug.Value("Capture speed (m/s)", grid.Speed)
	logRows(grid)

	debug.Step(3, "Writing plan")
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(grid.Waypoints); err != nil {
			return fmt.Errorf("encode waypoints: %w", err)
		}
	default:
		if err := writeTable(w, grid.Waypoints, summary); err != nil {
			return err
		}
	}

	if plotPath != "" {
		debug.Step(4, "Rendering plot")
		if err := render.Save(plotPath, grid.Waypoints); err != nil {
			return err
		}
		debug.Info("Plot written to %s", plotPath)
	}
	return nil
}

// logRows prints the traversal of every row (live) and every waypoint (trace).
func logRows(grid *plan.GridPlan) {
	if !debug.IsEnabled(debug.LevelLive) {
		return
	}
	n := 0
	for r := 0; r < grid.Rows; r++ {
		row := grid.Row(r)
		debug.Row(r+1, grid.Rows, grid.Direction(r).String(), row[0].Y)
		for _, wp := range row {
			debug.Waypoint(n, wp.X, wp.Y, wp.Z, wp.Speed)
			n++
		}
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// writeTable writes the waypoints as a table followed by a one-line summary.
func writeTable(w io.Writer, waypoints []plan.Waypoint, s plan.Summary) error {
	rows := make([][]string, len(waypoints))
	for i, wp := range waypoints {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(wp.X, 'f', 2, 64),
			strconv.FormatFloat(wp.Y, 'f', 2, 64),
			strconv.FormatFloat(wp.Z, 'f', 2, 64),
			strconv.FormatFloat(wp.Speed, 'f', 2, 64),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("#", "X (m)", "Y (m)", "Z (m)", "Speed (m/s)").
		Rows(rows...)

	_, err := fmt.Fprintf(w, "%s\n%s waypoints, %s path, %s at %s m/s\n",
		t.Render(),
		humanize.Comma(int64(s.Waypoints)),
		humanize.SIWithDigits(s.PathLengthM, 1, "m"),
		s.FlightTime.Round(time.Second),
		humanize.FtoaWithDigits(s.SpeedMps, 2),
	)
	return err
}

func registerOverrideFlags(fs *flag.FlagSet) {
	for _, f := range overrideFlags {
		fs.Float64(f.name, 0, f.usage)
	}
}

// overridesFromFlags collects the dataset flags explicitly set on fs
// (fs must be parsed) and validates them.
func overridesFromFlags(fs *flag.FlagSet) (overrides, error) {
	o := overrides{}
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil || !isOverrideFlag(f.Name) {
			return
		}
		v, perr := strconv.ParseFloat(f.Value.String(), 64)
		if perr != nil {
			err = fmt.Errorf("%s: %w", f.Name, perr)
			return
		}
		o[f.Name] = v
	})
	if err != nil {
		return nil, err
	}
	return o, validateCLIOverrides(o)
}

func isOverrideFlag(name string) bool {
	for _, f := range overrideFlags {
		if f.name == name {
			return true
		}
	}
	return false
}

// validateCLIOverrides rejects negative or NaN overrides, and zero height
// or exposure. Range checks happen on the resulting dataset (see
// DatasetSpec.Validate).
func validateCLIOverrides(o overrides) error {
	for _, f := range overrideFlags {
		v, ok := o[f.name]
		if !ok {
			continue
		}
		if f.minPositive {
			if math.IsNaN(v) || v <= 0 {
				return fmt.Errorf("%s must be > 0, got %g", f.name, v)
			}
		} else if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("%s must be >= 0, got %g", f.name, v)
		}
	}
	return nil
}

// applyOverrides returns spec with the given overrides applied.
func applyOverrides(spec plan.DatasetSpec, o overrides) plan.DatasetSpec {
	fields := map[string]*float64{
		"height":      &spec.Height,
		"overlap":     &spec.Overlap,
		"sidelap":     &spec.Sidelap,
		"scan_x":      &spec.ScanDimensionX,
		"scan_y":      &spec.ScanDimensionY,
		"exposure_ms": &spec.ExposureTimeMs,
	}
	for name, v := range o {
		if dst, ok := fields[name]; ok {
			*dst = v
		}
	}
	return spec
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
