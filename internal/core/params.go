package core

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeBool denotes boolean parameters.
	ParamTypeBool ParamType = "bool"
	// ParamTypeString denotes free-form text.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single value exposed by a sampler for display.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name    string
	Params  []Parameter
	Summary string
}

// ParameterSnapshot captures the current configuration and counters of a
// sampler.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// ParameterProvider is implemented by samplers that can describe themselves.
type ParameterProvider interface {
	Parameters() ParameterSnapshot
}
