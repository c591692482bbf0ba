package domain

// Scenario is one independent simulation input, already normalized into
// id-keyed collections by the loader.
type Scenario struct {
	Name       string
	Warehouses map[string]Point
	Agents     map[string]Point
	Packages   []Package
}
