package report

import (
	"context"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/ports"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
)

const (
	cellEmpty     = '.'
	cellWarehouse = 'W'
	cellAgent     = 'A'
	cellPackage   = 'P'
	cellOverlap   = '*'
)

// RenderMap draws warehouses, initial agent positions and package
// destinations on a width x height character grid scaled to the scenario's
// bounding box. Y grows upwards.
func RenderMap(sc *domain.Scenario, width, height int) string {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(string(cellEmpty), width))
	}

	fleet := domain.NewFleet(sc)
	warehouses := fleet.Warehouses()
	agents := make([]domain.Point, 0, fleet.Len())
	for _, id := range fleet.AgentIDs() {
		loc, _ := fleet.AgentLocation(id)
		agents = append(agents, loc)
	}

	var pts []domain.Point
	for _, w := range warehouses {
		pts = append(pts, w.Location)
	}
	pts = append(pts, agents...)
	for _, pkg := range sc.Packages {
		pts = append(pts, pkg.Destination)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "scenario %s (%d warehouses, %d agents, %d packages)\n",
		sc.Name, len(warehouses), len(agents), len(sc.Packages))
	if len(pts) == 0 {
		return b.String()
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	scale := func(v, lo, hi float64, cells int) int {
		if hi == lo || cells == 1 {
			return 0
		}
		return int(math.Round((v - lo) / (hi - lo) * float64(cells-1)))
	}

	plot := func(p domain.Point, mark rune) {
		col := scale(p.X, minX, maxX, width)
		row := height - 1 - scale(p.Y, minY, maxY, height)
		switch grid[row][col] {
		case cellEmpty, mark:
			grid[row][col] = mark
		default:
			grid[row][col] = cellOverlap
		}
	}

	for _, pkg := range sc.Packages {
		plot(pkg.Destination, cellPackage)
	}
	for _, w := range warehouses {
		plot(w.Location, cellWarehouse)
	}
	for _, p := range agents {
		plot(p, cellAgent)
	}

	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "x=[%.2f, %.2f] y=[%.2f, %.2f]  W=warehouse A=agent P=destination *=overlap\n", minX, maxX, minY, maxY)
	return b.String()
}

// MapWritingLoader renders every successfully loaded scenario to
// <Dir>/<scenario>_map.txt before handing it on. Rendering failures are
// logged and never affect the run.
type MapWritingLoader struct {
	Next   ports.ScenarioLoader
	Dir    string
	Width  int
	Height int
}

func (l *MapWritingLoader) Load(ctx context.Context, name string, path string) (*domain.Scenario, error) {
	sc, err := l.Next.Load(ctx, name, path)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(l.Dir, filepath.Base(name)+"_map.txt")
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		log.Printf("scenario=%s render map: %v", name, err)
		return sc, nil
	}
	if err := os.WriteFile(out, []byte(RenderMap(sc, l.Width, l.Height)), 0o644); err != nil {
		log.Printf("scenario=%s render map: %v", name, err)
	}
	return sc, nil
}
