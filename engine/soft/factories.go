package soft

import (
	"github.com/zappa672/RLIDisplay/engine"
	"github.com/zappa672/RLIDisplay/s52"
)

// Factories returns CPU engine factories for every class. safety supplies
// the safety depth to the soundings engine.
func Factories(refs Colors, safety func() float64) engine.Factories {
	return engine.Factories{
		Area:     func() engine.Engine[s52.AreaLayer] { return NewAreaEngine(refs) },
		Line:     func() engine.Engine[s52.LineLayer] { return NewLineEngine(refs) },
		Mark:     func() engine.Engine[s52.MarkLayer] { return NewMarkEngine() },
		Text:     func() engine.Engine[s52.TextLayer] { return NewTextEngine(refs) },
		Sounding: func() engine.Engine[s52.SoundingLayer] { return NewSoundingEngine(refs, safety) },
	}
}
