package rank

// Config holds the tunable parameters of the rank engine
type Config struct {
	Width int    `yaml:"width"`
	Step  uint64 `yaml:"step"`
	Chunk uint64 `yaml:"chunk"`
}

// DefaultConfig returns the standard rank format: ten base-36 digits,
// tail appends 1000 apart and rebalanced neighbors 36 apart.
func DefaultConfig() Config {
	return Config{
		Width: DefaultWidth,
		Step:  DefaultStep,
		Chunk: DefaultChunk,
	}
}

// Engine bundles the codec, allocator and rebalancer for one rank format
type Engine struct {
	Codec      Codec
	Allocator  Allocator
	Rebalancer Rebalancer
}

// NewEngine builds an engine from cfg
func NewEngine(cfg Config) (*Engine, error) {
	codec, err := NewCodec(cfg.Width)
	if err != nil {
		return nil, err
	}
	allocator, err := NewAllocator(codec, cfg.Step)
	if err != nil {
		return nil, err
	}
	rebalancer, err := NewRebalancer(codec, cfg.Chunk)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Codec:      codec,
		Allocator:  allocator,
		Rebalancer: rebalancer,
	}, nil
}

// DefaultEngine returns the engine for DefaultConfig
func DefaultEngine() *Engine {
	engine, _ := NewEngine(DefaultConfig())
	return engine
}
