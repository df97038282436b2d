// Package ai holds the LLM-backed collaborators: lead scoring, outreach
// message generation, site content and marketing insights. Each runs a
// single-turn ADK agent and parses a JSON reply.
package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

// TextGenerator runs one prompt and returns the model's text reply.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AgentConfig describes a single-purpose agent.
type AgentConfig struct {
	Name        string
	Description string
	Instruction string
	Temperature float32
	// JSON asks the model for a JSON object reply.
	JSON bool
}

// Agent is a TextGenerator backed by an ADK runner. Every call uses a fresh
// session so prompts never see each other's history.
type Agent struct {
	runner         *runner.Runner
	sessionService session.Service
	appName        string
	runMu          sync.Mutex
}

// NewAgent builds an agent on llm.
func NewAgent(llm model.LLM, cfg AgentConfig) (*Agent, error) {
	genCfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(cfg.Temperature)}
	if cfg.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:                  cfg.Name,
		Model:                 llm,
		Description:           cfg.Description,
		Instruction:           cfg.Instruction,
		GenerateContentConfig: genCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s agent: %w", cfg.Name, err)
	}

	appName := strings.ToLower(cfg.Name)
	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s runner: %w", cfg.Name, err)
	}

	return &Agent{
		runner:         r,
		sessionService: sessionService,
		appName:        appName,
	}, nil
}

// Generate runs prompt through the agent and concatenates the reply text.
func (a *Agent) Generate(ctx context.Context, prompt string) (string, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	sessionID := uuid.NewString()
	userID := a.appName

	if _, err := a.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   a.appName,
		UserID:    userID,
		SessionID: sessionID,
	}); err != nil {
		return "", fmt.Errorf("%s: create session: %w", a.appName, err)
	}
	defer func() {
		_ = a.sessionService.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   a.appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := genai.NewContentFromText(prompt, genai.RoleUser)
	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	var out strings.Builder
	for event, err := range a.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return "", fmt.Errorf("%s: run failed: %w", a.appName, err)
		}
		if event == nil || event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			if part != nil {
				out.WriteString(part.Text)
			}
		}
	}

	return strings.TrimSpace(out.String()), nil
}

var _ TextGenerator = (*Agent)(nil)
