package config

import "go.uber.org/fx"

// Module provides *Config loaded from flags, the environment and .env.
var Module = fx.Provide(Load)
