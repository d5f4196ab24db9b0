// Package assist implements the AI text helpers of the builder: drafting a
// professional summary, polishing a piece of resume text, and suggesting
// additional skills for a job title.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/oneclickresume/internal/llm"
	"github.com/jonathan/oneclickresume/internal/prompts"
	"github.com/jonathan/oneclickresume/internal/types"
)

// Action names one assist operation.
type Action string

// Supported actions.
const (
	ActionSummary Action = "summary"
	ActionImprove Action = "improve"
	ActionSkills  Action = "skills"
)

// Actions lists the supported actions.
func Actions() []Action {
	return []Action{ActionSummary, ActionImprove, ActionSkills}
}

// User-facing messages.
const (
	MsgRateLimited   = "Rate limit exceeded. Please try again in a moment."
	MsgCredits       = "AI usage limit reached. Please add credits."
	MsgFailed        = "AI generation failed"
	MsgInvalidAction = "Invalid action"
	MsgNotConfigured = "AI assist is not configured"
)

const collaborator = "assist"

// messageError is an error whose text is one of the Msg constants.
type messageError string

func (e messageError) Error() string { return string(e) }

var (
	// ErrInvalidAction is returned for an action outside Actions().
	ErrInvalidAction error = messageError(MsgInvalidAction)
	// ErrNotConfigured is returned when the server runs without an LLM client.
	ErrNotConfigured error = messageError(MsgNotConfigured)
)

// Data carries the inputs of every action; each action reads only the
// fields it needs.
type Data struct {
	Name       string             `json:"name,omitempty"`
	Title      string             `json:"title,omitempty"`
	Skills     []string           `json:"skills,omitempty"`
	Experience []types.Experience `json:"experience,omitempty"`
	Text       string             `json:"text,omitempty"`
}

// Request is the body of POST /assist.
type Request struct {
	Action Action `json:"action"`
	Data   Data   `json:"data"`
}

// Response is the result of a successful action. Skills is set only for
// ActionSkills.
type Response struct {
	Result string   `json:"result"`
	Skills []string `json:"skills,omitempty"`
}

// Service runs assist actions against an llm.Client.
type Service struct {
	client  llm.Client
	prompts map[Action]prompts.Pair
}

// NewService loads the prompt pairs for every action. A nil client yields a
// service whose actions fail with ErrNotConfigured.
func NewService(client llm.Client) (*Service, error) {
	s := &Service{client: client, prompts: make(map[Action]prompts.Pair)}
	for _, a := range Actions() {
		p, err := prompts.GetPair(prompts.AssistFile, string(a))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s prompts: %w", a, err)
		}
		s.prompts[a] = p
	}
	return s, nil
}

// Run executes one action. Errors from the provider come back as
// *types.CollaboratorError carrying a user-facing message; the provider
// error stays in the chain so callers can test for llm.ErrRateLimited and
// llm.ErrCreditsExhausted.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	pair, ok := s.prompts[req.Action]
	if !ok {
		return nil, ErrInvalidAction
	}
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	system, user := pair.Render(templateData(req.Action, req.Data))

	out, err := s.client.Complete(ctx, system, user)
	if err != nil {
		log.Printf("[assist] %s via %s failed: %v", req.Action, s.client.Model(), err)
		return nil, upstreamError(err)
	}

	resp := &Response{Result: llm.CleanCompletion(out)}
	if req.Action == ActionSkills {
		resp.Skills = llm.SplitList(resp.Result)
	}
	return resp, nil
}

func templateData(action Action, d Data) map[string]string {
	switch action {
	case ActionSummary:
		return map[string]string{
			"Name":       d.Name,
			"Title":      d.Title,
			"Skills":     orDefault(joinSkills(d.Skills), "N/A"),
			"Experience": orDefault(describeExperience(d.Experience), "N/A"),
		}
	case ActionImprove:
		return map[string]string{"Text": d.Text}
	case ActionSkills:
		return map[string]string{
			"Title":  d.Title,
			"Skills": orDefault(joinSkills(d.Skills), "None"),
		}
	}
	return nil
}

func joinSkills(skills []string) string {
	var kept []string
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}

func describeExperience(entries []types.Experience) string {
	var parts []string
	for _, e := range entries {
		if strings.TrimSpace(e.Company) == "" && strings.TrimSpace(e.Role) == "" {
			continue
		}
		parts = append(parts, e.Role+" at "+e.Company)
	}
	return strings.Join(parts, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func upstreamError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := MsgFailed
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		msg = MsgRateLimited
	case errors.Is(err, llm.ErrCreditsExhausted):
		msg = MsgCredits
	}
	return &types.CollaboratorError{Collaborator: collaborator, Message: msg, Cause: err}
}
