package entity

// DefaultSystemInstruction sets up the model as a dream interpreter.
const DefaultSystemInstruction = "You are a dream analysis chatbot. Please analyze any user-described dream. " +
	"Provide a brief (2-4 point) interpretation focused only on the dream’s meaning."

type DreamRequest struct {
	Description string `form:"dream_description"`
}

// GenerationConfig holds the sampling parameters sent with every analysis.
type GenerationConfig struct {
	Temperature       float32
	TopP              float32
	TopK              float32
	MaxOutputTokens   int32
	SystemInstruction string
}

// NewGenerationConfig returns the fixed configuration used for dream analysis.
func NewGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:       1,
		TopP:              0.95,
		TopK:              40,
		MaxOutputTokens:   8192,
		SystemInstruction: DefaultSystemInstruction,
	}
}

type GenerationRequest struct {
	Model  string
	Prompt string
	Config GenerationConfig
}

type AnalysisResult struct {
	HTML     string
	Model    string
	Attempts int
}
