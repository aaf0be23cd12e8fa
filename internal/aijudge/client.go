// Package aijudge calls the OpenAI Chat Completions API to decide text
// battles. It implements engine.JudgeClient; retries, caching and fallback
// behavior live with the callers.
package aijudge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/constants"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/dedupe"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/engine"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/logging"
)

const defaultJudgePrompt = "Two animal characters face off in a friendly text battle for kids. " +
	"Attacker: {{attacker_name}} the {{attacker_species}} shouts: \"{{attacker_text}}\". " +
	"Defender: {{defender_name}} the {{defender_species}} shouts: \"{{defender_text}}\". " +
	"Pick the more creative, spirited battle cry. Respond with JSON only: " +
	"{\"winner\": \"attacker\" or \"defender\", \"judgment\": \"one playful sentence announcing the winner\", \"reasoning\": \"one short sentence why\"}."

type Client struct {
	httpClient     *http.Client
	promptTemplate string
}

// NewClient builds a judge client. An empty promptTemplate selects the
// built-in default; templates use the {{attacker_*}}/{{defender_*}} tokens.
func NewClient(promptTemplate string) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		promptTemplate: strings.TrimSpace(promptTemplate),
	}
}

type aiResponse struct {
	Winner    string `json:"winner"`
	Judgment  string `json:"judgment"`
	Reasoning string `json:"reasoning"`
}

// Judge asks OpenAI for a verdict. Concurrent calls for the same matchup
// share a single round-trip via singleflight keyed by the battle texts.
func (c *Client) Judge(ctx context.Context, attacker, defender engine.Contestant) (engine.AIVerdict, error) {
	sfKey := attacker.Name + "|" + attacker.BattleText + "|" + defender.Name + "|" + defender.BattleText

	ch := dedupe.JudgeGroup.DoChan(sfKey, func() (interface{}, error) {
		return c.callOpenAI(ctx, attacker, defender)
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return engine.AIVerdict{}, r.Err
		}
		v, ok := r.Val.(engine.AIVerdict)
		if !ok {
			return engine.AIVerdict{}, fmt.Errorf("unexpected result type from singleflight")
		}
		return v, nil
	case <-ctx.Done():
		return engine.AIVerdict{}, ctx.Err()
	}
}

func (c *Client) callOpenAI(ctx context.Context, attacker, defender engine.Contestant) (engine.AIVerdict, error) {
	apiKey := os.Getenv(constants.EnvOpenAIAPIKey)
	if apiKey == "" {
		return engine.AIVerdict{}, fmt.Errorf("%s not set", constants.EnvOpenAIAPIKey)
	}

	prompt := c.promptTemplate
	if prompt == "" {
		prompt = defaultJudgePrompt
	}
	replacer := strings.NewReplacer(
		"{{attacker_name}}", attacker.Name,
		"{{attacker_species}}", attacker.Species,
		"{{attacker_text}}", attacker.BattleText,
		"{{defender_name}}", defender.Name,
		"{{defender_species}}", defender.Species,
		"{{defender_text}}", defender.BattleText,
	)
	prompt = replacer.Replace(prompt)

	payload := map[string]interface{}{
		"model": constants.OpenAIChatModel,
		"messages": []map[string]string{
			{"role": "system", "content": "You are a cheerful referee judging text battles between animal characters in a children's game."},
			{"role": "user", "content": prompt},
		},
		"max_completion_tokens": 500,
	}

	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, constants.OpenAIBaseURL+constants.OpenAIChatCompletionsPath, bytes.NewBuffer(b))
	if err != nil {
		return engine.AIVerdict{}, err
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+apiKey)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return engine.AIVerdict{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return engine.AIVerdict{}, fmt.Errorf("openai error: %d %s", resp.StatusCode, string(body))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return engine.AIVerdict{}, err
	}
	if len(out.Choices) == 0 {
		return engine.AIVerdict{}, fmt.Errorf("empty response from OpenAI")
	}

	content := stripCodeFence(out.Choices[0].Message.Content)
	var parsed aiResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return engine.AIVerdict{}, fmt.Errorf("unparseable judge response: %w", err)
	}

	logging.Info("ai judge verdict", logging.Fields{"winner": parsed.Winner})
	return engine.AIVerdict{
		Winner:    parsed.Winner,
		Judgment:  strings.TrimSpace(parsed.Judgment),
		Reasoning: strings.TrimSpace(parsed.Reasoning),
	}, nil
}

// stripCodeFence removes a surrounding ```json fence if the model wrapped
// its JSON answer in one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
