package loader

import (
	"bytes"
	"context"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/platform/obs"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var schema = jsonschema.MustCompileString("scenario.schema.json", scenarioSchema)

type locatedDoc struct {
	ID       string     `json:"id"`
	Location [2]float64 `json:"location"`
}

type packageDoc struct {
	ID          string     `json:"id"`
	WarehouseID string     `json:"warehouse_id"`
	Destination [2]float64 `json:"destination"`
}

type scenarioDoc struct {
	Warehouses json.RawMessage `json:"warehouses"`
	Agents     json.RawMessage `json:"agents"`
	Packages   []packageDoc    `json:"packages"`
}

// JSONFileLoader reads scenario documents from the local filesystem.
type JSONFileLoader struct{}

func NewJSONFileLoader() *JSONFileLoader {
	return &JSONFileLoader{}
}

// Load reads and parses one scenario file. Any failure is reported as
// domain.ErrDataUnavailable.
func (l *JSONFileLoader) Load(ctx context.Context, name string, path string) (_ *domain.Scenario, err error) {
	defer obs.Time(ctx, "loader.Load")(&err)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: read %q: %w: %v", name, path, domain.ErrDataUnavailable, err)
	}

	return Parse(name, raw)
}

// Parse validates a scenario document and normalizes it into the canonical
// id-keyed representation.
func Parse(name string, raw []byte) (*domain.Scenario, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("parse scenario %q: %w: %v", name, domain.ErrDataUnavailable, err)
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("parse scenario %q: %w: %v", name, domain.ErrDataUnavailable, err)
	}

	var doc scenarioDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario %q: %w: %v", name, domain.ErrDataUnavailable, err)
	}

	warehouses, err := decodeLocations(name, "warehouses", doc.Warehouses)
	if err != nil {
		return nil, err
	}
	agents, err := decodeLocations(name, "agents", doc.Agents)
	if err != nil {
		return nil, err
	}

	packages := make([]domain.Package, 0, len(doc.Packages))
	for i, p := range doc.Packages {
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("P%d", i+1)
		}
		packages = append(packages, domain.Package{
			ID:          id,
			WarehouseID: p.WarehouseID,
			Destination: toPoint(p.Destination),
		})
	}

	if err := checkExtent(name, warehouses, agents, packages); err != nil {
		return nil, err
	}

	return &domain.Scenario{
		Name:       name,
		Warehouses: warehouses,
		Agents:     agents,
		Packages:   packages,
	}, nil
}

// decodeLocations collapses the list and mapping input shapes into one map.
func decodeLocations(scenario, field string, raw json.RawMessage) (map[string]domain.Point, error) {
	out := map[string]domain.Point{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return out, nil
	}

	switch trimmed[0] {
	case '[':
		var items []locatedDoc
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("parse scenario %q: %s: %w: %v", scenario, field, domain.ErrDataUnavailable, err)
		}
		for _, it := range items {
			if _, dup := out[it.ID]; dup {
				log.Printf("scenario=%s %s id=%s duplicated, last entry wins", scenario, field, it.ID)
			}
			out[it.ID] = toPoint(it.Location)
		}

	case '{':
		var items map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("parse scenario %q: %s: %w: %v", scenario, field, domain.ErrDataUnavailable, err)
		}
		for id, v := range items {
			p, err := decodeLocated(v)
			if err != nil {
				return nil, fmt.Errorf("parse scenario %q: %s[%q]: %w: %v", scenario, field, id, domain.ErrDataUnavailable, err)
			}
			out[id] = p
		}

	default:
		return nil, fmt.Errorf("parse scenario %q: %s must be a list or an object: %w", scenario, field, domain.ErrDataUnavailable)
	}

	return out, nil
}

// decodeLocated accepts either a bare [x, y] pair or an object with a location.
func decodeLocated(raw json.RawMessage) (domain.Point, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var xy [2]float64
		if err := json.Unmarshal(trimmed, &xy); err != nil {
			return domain.Point{}, err
		}
		return toPoint(xy), nil
	}

	var it locatedDoc
	if err := json.Unmarshal(trimmed, &it); err != nil {
		return domain.Point{}, err
	}
	return toPoint(it.Location), nil
}

// checkExtent rejects scenarios whose bounding box diagonal is not a finite
// number; any distance between two of their points could overflow.
func checkExtent(name string, warehouses, agents map[string]domain.Point, packages []domain.Package) error {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	add := func(p domain.Point) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	for _, p := range warehouses {
		add(p)
	}
	for _, p := range agents {
		add(p)
	}
	for _, pkg := range packages {
		add(pkg.Destination)
	}
	if minX > maxX {
		return nil
	}

	if d := math.Hypot(maxX-minX, maxY-minY); math.IsInf(d, 0) || math.IsNaN(d) {
		return fmt.Errorf("parse scenario %q: coordinates span a range too large to measure: %w", name, domain.ErrDataUnavailable)
	}
	return nil
}

func toPoint(xy [2]float64) domain.Point {
	return domain.Point{X: xy[0], Y: xy[1]}
}
