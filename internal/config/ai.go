package config

// GeminiModels defines which Gemini model serves each pipeline stage
type GeminiModels struct {
	// Generate writes the main narrative (quality over speed)
	Generate string `env:"MODEL_GENERATE" envDefault:"gemini-2.0-flash"`

	// Completeness checks the narrative against the trait lists
	Completeness string `env:"MODEL_COMPLETENESS" envDefault:"gemini-2.5-flash-preview-05-20"`

	// Judge rules on the narrative's acceptance criteria (fast)
	Judge string `env:"MODEL_JUDGE" envDefault:"gemini-2.5-flash-preview-05-20"`

	// Correlate reorders sentences around correlated traits
	Correlate string `env:"MODEL_CORRELATE" envDefault:"gemini-2.5-flash-preview-05-20"`

	// Items writes the item-level narrative (quality over speed)
	Items string `env:"MODEL_ITEMS" envDefault:"gemini-2.0-flash"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `env:"API_KEY" json:"-"` // Never serialize
	BaseURL   string       `env:"BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/models"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `env:"TIMEOUT_MS" envDefault:"30000"`
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
