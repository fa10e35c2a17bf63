package config

import (
	"github.com/JaimeStill/lading/internal/extraction"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/pkg/llm"
	"github.com/JaimeStill/lading/pkg/pdftext"
)

var llmEnv = &llm.Env{
	Provider:        "LADING_LLM_PROVIDER",
	Model:           "LADING_LLM_MODEL",
	MaxTokens:       "LADING_LLM_MAX_TOKENS",
	Timeout:         "LADING_LLM_TIMEOUT",
	AnthropicAPIKey: "LADING_ANTHROPIC_API_KEY",
	GeminiProject:   "LADING_GEMINI_PROJECT",
	GeminiLocation:  "LADING_GEMINI_LOCATION",
}

var ocrEnv = &pdftext.Env{
	Backend:       "LADING_OCR_BACKEND",
	AzureEndpoint: "LADING_OCR_AZURE_ENDPOINT",
	AzureAPIKey:   "LADING_OCR_AZURE_API_KEY",
	AzureModel:    "LADING_OCR_AZURE_MODEL",
	AzureTimeout:  "LADING_OCR_AZURE_TIMEOUT",
}

var extractionEnv = &extraction.Env{
	Timeout:       "LADING_EXTRACTION_TIMEOUT",
	MaxRetries:    "LADING_EXTRACTION_MAX_RETRIES",
	RetryDelay:    "LADING_EXTRACTION_RETRY_DELAY",
	MaxExamples:   "LADING_EXTRACTION_MAX_EXAMPLES",
	RetryExamples: "LADING_EXTRACTION_RETRY_EXAMPLES",
	Workers:       "LADING_EXTRACTION_WORKERS",
}

var knowledgeEnv = &knowledge.Env{
	FewShotLimit:  "LADING_KNOWLEDGE_FEW_SHOT_LIMIT",
	MinConfidence: "LADING_KNOWLEDGE_MIN_CONFIDENCE",
	MaxAgeDays:    "LADING_KNOWLEDGE_MAX_AGE_DAYS",
}
