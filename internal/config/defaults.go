package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/heapdefence.yaml
var defaultHeapDefenceYAML []byte

// Default returns the built-in Heap Defence configuration.
func Default() HeapDefenceConfig {
	return HeapDefenceConfig{
		Field: FieldConfig{
			Width:  12,
			Height: 6,
		},
		Boxes: BoxConfig{
			Height:         10,
			GenerationRate: 15,
			Variants:       5,
		},
		Timing: TimingConfig{
			UpdateFreq:    8,
			PopTimeout:    100 * time.Millisecond,
			RenderTimeout: 25 * time.Millisecond,
		},
		Queue: QueueConfig{
			Capacity: 8,
		},
		Render: RenderConfig{
			OverlayFrame: 250 * time.Millisecond,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultHeapDefenceYAML
}
