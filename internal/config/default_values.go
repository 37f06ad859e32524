package config

const (
	DefaultBaseURL     = "https://api.chatanywhere.org/v1"
	DefaultModel       = "gpt-5.1"
	DefaultAPIKeyEnv   = "chat_any_where_key"
	DefaultTimeoutMS   = 60000
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000

	DefaultProgressFile = "prgs.md"
	DefaultUrgencyDays  = 3

	DefaultLogFile  = "~/.muxsummary/muxsummary.log"
	DefaultLogLevel = "info"
)
