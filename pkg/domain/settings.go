package domain

const DefaultModel = "gpt-4"

// SupportedModels is the fixed set of chat models offered in the model selector.
var SupportedModels = []string{
	"gpt-4o",
	"gpt-4",
	"gpt-4-turbo",
	"gpt-3.5-turbo",
}

const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 2000
)
