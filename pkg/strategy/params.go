package strategy

import (
	"math"
)

type ParamKind int

const (
	ParamFloat ParamKind = iota
	ParamInt
)

// Parameter declares one named, typed, bounded hyperparameter with a default.
// An external optimizer draws values from [Min, Max] and assigns a full
// replacement set between runs.
type Parameter struct {
	Name    string
	Kind    ParamKind
	Min     float64
	Max     float64
	Default float64
}

// Params is a hyperparameter assignment by name.
type Params map[string]float64

func (p Params) Float(name string) float64 {
	return p[name]
}

func (p Params) Int(name string) int {
	return int(math.Round(p[name]))
}

// Defaults builds the assignment a strategy starts with.
func Defaults(parameters []Parameter) Params {
	params := make(Params, len(parameters))
	for _, parameter := range parameters {
		params[parameter.Name] = parameter.Default
	}
	return params
}
