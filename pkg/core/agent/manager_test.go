package agent

import (
	"testing"

	"shopagent/pkg/core/config"

	"go.uber.org/zap"
)

func testEnv() config.Config {
	return config.Config{
		OllamaHost:  "http://localhost:11434",
		OllamaModel: "llama3.1",
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash-exp",
	}
}

func TestProviderAgentOverride(t *testing.T) {
	m := NewManager(Config{
		ActiveProvider: "ollama",
		Agents: map[string]AgentConfig{
			TypeCompare: {Provider: "gemini"},
		},
	}, testEnv(), zap.NewNop())

	if got := m.Provider(TypeCompare).Name(); got != "gemini/gemini-2.0-flash-exp" {
		t.Errorf("compare provider = %s, want gemini override", got)
	}
	if got := m.Provider(TypeReview).Name(); got != "ollama/llama3.1" {
		t.Errorf("review provider = %s, want global ollama", got)
	}
}

func TestProviderUnknownOverrideFallsBack(t *testing.T) {
	m := NewManager(Config{
		ActiveProvider: "ollama",
		Agents:         map[string]AgentConfig{TypePrice: {Provider: "nonexistent"}},
	}, testEnv(), zap.NewNop())

	if got := m.Provider(TypePrice).Name(); got != "ollama/llama3.1" {
		t.Errorf("price provider = %s, want ollama fallback", got)
	}
}

func TestSetGlobalProvider(t *testing.T) {
	m := NewManager(Config{}, testEnv(), zap.NewNop())
	if m.ActiveProvider() != "ollama" {
		t.Errorf("default provider = %s, want ollama", m.ActiveProvider())
	}
	if err := m.SetGlobalProvider("openai"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if m.ActiveProvider() != "openai" {
		t.Errorf("active = %s after switch", m.ActiveProvider())
	}
	if err := m.SetGlobalProvider("bogus"); err == nil {
		t.Error("expected error for unknown provider")
	}
}
