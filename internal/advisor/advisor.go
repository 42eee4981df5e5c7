package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/terraincognita07/lunacycle/internal/cycle"
)

const (
	RoleUser    = "user"
	RolePartner = "partner"

	tipCount = 3
)

// TipsRequest describes the situation the tips are written for.
type TipsRequest struct {
	Role          string
	Phase         cycle.Phase
	DaysRemaining int
	Symptoms      []string
}

// ChatContext is what the assistant knows when a partner asks a question.
type ChatContext struct {
	Phase         cycle.Phase
	DaysUntilNext int
	Symptoms      []string
}

// Advisor turns cycle context into prompts and parses the replies.
type Advisor struct {
	generator TextGenerator
}

func New(generator TextGenerator) *Advisor {
	return &Advisor{generator: generator}
}

func (a *Advisor) Enabled() bool {
	return a != nil && a.generator != nil
}

func (a *Advisor) Provider() string {
	if !a.Enabled() {
		return "none"
	}
	return a.generator.Name()
}

func (a *Advisor) Tips(ctx context.Context, req TipsRequest) ([]string, error) {
	if !a.Enabled() {
		return nil, ErrNotConfigured
	}

	reply, err := a.generator.GenerateContent(ctx, tipsPrompt(req), GenerateOptions{JSON: true})
	if err != nil {
		return nil, err
	}
	return ParseTips(reply)
}

func (a *Advisor) Chat(ctx context.Context, chat ChatContext, message string) (string, error) {
	if !a.Enabled() {
		return "", ErrNotConfigured
	}

	reply, err := a.generator.GenerateContent(ctx, chatPrompt(chat, message), GenerateOptions{})
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrEmptyResponse
	}
	return reply, nil
}

// ParseTips reads a {"tips": [...]} reply, tolerating code fences around it.
func ParseTips(reply string) ([]string, error) {
	payload := strings.TrimSpace(reply)
	payload = strings.TrimPrefix(payload, "```json")
	payload = strings.TrimPrefix(payload, "```")
	payload = strings.TrimSuffix(payload, "```")
	payload = strings.TrimSpace(payload)

	var parsed struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("parse tips: %w", err)
	}

	tips := make([]string, 0, tipCount)
	for _, tip := range parsed.Tips {
		tip = strings.TrimSpace(tip)
		if tip == "" {
			continue
		}
		tips = append(tips, tip)
		if len(tips) == tipCount {
			break
		}
	}
	if len(tips) == 0 {
		return nil, ErrEmptyResponse
	}
	return tips, nil
}
