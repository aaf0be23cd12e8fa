package aijudge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/constants"
)

// ModerateText asks the OpenAI moderation endpoint whether a battle text is
// acceptable for the game. Returns true when the text passes. This is the
// boolean pass/fail collaborator the battle flow assumes has already run.
func (c *Client) ModerateText(ctx context.Context, text string) (bool, error) {
	apiKey := os.Getenv(constants.EnvOpenAIAPIKey)
	if apiKey == "" {
		return false, fmt.Errorf("%s not set", constants.EnvOpenAIAPIKey)
	}

	payload := map[string]interface{}{
		"model": constants.OpenAIModerationModel,
		"input": text,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, constants.OpenAIBaseURL+constants.OpenAIModerationsPath, bytes.NewBuffer(b))
	if err != nil {
		return false, err
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+apiKey)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("openai moderation error: %d %s", resp.StatusCode, string(body))
	}

	var out struct {
		Results []struct {
			Flagged bool `json:"flagged"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, err
	}
	if len(out.Results) == 0 {
		return false, fmt.Errorf("empty moderation response")
	}
	return !out.Results[0].Flagged, nil
}
