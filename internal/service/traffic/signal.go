package traffic

import "trafficflow/internal/model"

// SignalTiming is a recommended green/red phase length in seconds.
type SignalTiming struct {
	Green int `json:"green_time"`
	Red   int `json:"red_time"`
}

var signalTimings = map[model.Level]SignalTiming{
	model.LevelLow:    {Green: 20, Red: 40},
	model.LevelMedium: {Green: 40, Red: 30},
	model.LevelHigh:   {Green: 60, Red: 20},
}

// RecommendSignalTiming looks up the timing for a level name. Unknown names
// get the medium timing.
func RecommendSignalTiming(level string) SignalTiming {
	parsed, ok := model.ParseLevel(level)
	if !ok {
		parsed = model.LevelMedium
	}
	return signalTimings[parsed]
}
