// Package agent maps agent types to LLM providers, with per-agent overrides
// loaded from config/models.yaml.
package agent

import (
	"fmt"

	"shopagent/pkg/core/config"
	"shopagent/pkg/core/llm"

	"go.uber.org/zap"
)

// Agent type identifiers used throughout the core.
const (
	TypeSearch       = "search"
	TypeReview       = "review"
	TypePrice        = "price"
	TypeCompare      = "compare"
	TypeBuyPlan      = "buyplan"
	TypeOrchestrator = "orchestrator"
)

// Config is the shape of config/models.yaml.
type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

// AgentConfig allows routing one agent to a different provider.
type AgentConfig struct {
	Provider    string `yaml:"provider"` // optional override
	Description string `yaml:"description"`
}

// Manager selects the provider for each agent type.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
	log       *zap.Logger
}

// NewManager wires the known providers from environment settings. Ollama is
// the fallback: it needs no API key and matches the original deployment.
func NewManager(agentCfg Config, env config.Config, log *zap.Logger) *Manager {
	if agentCfg.ActiveProvider == "" {
		agentCfg.ActiveProvider = "ollama"
	}
	return &Manager{
		config: agentCfg,
		providers: map[string]llm.Provider{
			"ollama": llm.NewOllamaProvider(env.OllamaHost, env.OllamaModel),
			"openai": llm.NewOpenAIProvider(env.OpenAIAPIKey, env.OpenAIBaseURL, env.OpenAIModel),
			"gemini": &llm.GeminiProvider{Model: env.GeminiModel},
		},
		log: log,
	}
}

// Provider resolves the provider for an agent type: agent-specific override
// first, then the global active provider, then Ollama.
func (m *Manager) Provider(agentType string) llm.Provider {
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
		m.log.Warn("configured provider not registered, using global",
			zap.String("agent", agentType), zap.String("provider", agentConfig.Provider))
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["ollama"]
}

// SetGlobalProvider switches the active provider at runtime.
func (m *Manager) SetGlobalProvider(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("agent: provider %s not found", name)
	}
	m.config.ActiveProvider = name
	m.log.Info("global provider switched", zap.String("provider", name))
	return nil
}

// ActiveProvider returns the current global provider name.
func (m *Manager) ActiveProvider() string {
	return m.config.ActiveProvider
}

// ModelName reports the model identifier used for response metadata.
func (m *Manager) ModelName() string {
	return m.Provider(TypeOrchestrator).Name()
}
