package analysis

// Config holds settings for the AI analysis stage.
type Config struct {
	APIKey string `yaml:"api_key" envconfig:"AI_API_KEY"`
	// BaseURL overrides the OpenAI endpoint for compatible providers.
	BaseURL     string  `yaml:"base_url" envconfig:"AI_BASE_URL"`
	Model       string  `yaml:"model" envconfig:"AI_MODEL"`
	Temperature float32 `yaml:"temperature" envconfig:"AI_TEMPERATURE"`
	MaxTokens   int     `yaml:"max_tokens" envconfig:"AI_MAX_TOKENS"`
	// TimeoutSeconds bounds a single analysis request; 0 -> default (60s).
	TimeoutSeconds int `yaml:"timeout_seconds" envconfig:"AI_TIMEOUT_SECONDS"`
}

func (c Config) model() string {
	if c.Model == "" {
		return "gpt-4o"
	}
	return c.Model
}

func (c Config) temperature() float32 {
	if c.Temperature == 0 {
		return 0.7
	}
	return c.Temperature
}

func (c Config) maxTokens() int {
	if c.MaxTokens == 0 {
		return 2000
	}
	return c.MaxTokens
}
