package config

const (
	defaultBaseURL            = "https://www.tagesschau.de"
	defaultWindowTagesschau   = 80
	defaultWindowTagesthemen  = 20
	defaultWindowNachtmagazin = 8
	defaultRequestTimeout     = 60
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scan: Scan{
			BaseURL:            defaultBaseURL,
			WindowTagesschau:   defaultWindowTagesschau,
			WindowTagesthemen:  defaultWindowTagesthemen,
			WindowNachtmagazin: defaultWindowNachtmagazin,
			RequestTimeout:     defaultRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
