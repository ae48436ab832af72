package terrain

import (
	"strconv"
	"strings"

	"cellatlas/internal/core"
)

// Parameters describes the sampler configuration and cache counters for the
// HUD.
func (s *Sampler) Parameters() core.ParameterSnapshot {
	st := s.Stats()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				int64Param("seed", "Seed", s.cfg.Seed),
				intParam("view_w", "View width", s.win.W),
				intParam("view_h", "View height", s.win.H),
				floatParam("scale", "Noise scale", s.cfg.Scale),
				intParam("time", "Water slot", s.time),
			},
		},
		{
			Name: "Atlas",
			Params: []core.Parameter{
				intParam("tiles", "Tiles per edge", s.reg.TilesPerEdge()),
				intParam("ids", "Assigned ids", s.reg.Len()),
				intParam("capacity", "Capacity", s.reg.Capacity()),
				intParam("overflow", "Overflow", s.reg.Overflow()),
				intParam("queued", "Queued", len(s.reg.Pending())),
				stringParam("passes", "Passes", strings.Join(s.reg.Passes(), ",")),
			},
		},
		{
			Name: "Caches",
			Params: []core.Parameter{
				intParam("raw", "Raw meta", st.Raw),
				intParam("meta", "Resolved meta", st.Meta),
				intParam("written", "Overrides", st.Written),
				intParam("vis", "Descriptors", st.Vis),
				intParam("animated", "Animated", st.Animated),
				intParam("pending", "Pending", st.Pending),
			},
			Summary: "Caches grow with the explored area and are never evicted.",
		},
	}}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: value}
}
