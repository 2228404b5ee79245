package config

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Port         string `mapstructure:"port" validate:"omitempty,numeric"`
	OtlpEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
	OtlpInsecure bool   `mapstructure:"otlp_insecure"`
}
