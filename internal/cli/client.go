package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"evolve/internal/game"
	"evolve/internal/sim"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type LoginResult struct {
	Token string `json:"token"`
	Team  string `json:"team"`
}

func (c *Client) Login(ctx context.Context, team, code string) (LoginResult, error) {
	var out LoginResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"team": team,
		"code": code,
	}, &out)
	return out, err
}

func (c *Client) Industries(ctx context.Context, token string) ([]sim.IndustryProfile, error) {
	var out struct {
		Industries []sim.IndustryProfile `json:"industries"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/industries", token, nil, &out)
	return out.Industries, err
}

func (c *Client) StartSession(ctx context.Context, token, industry string) (game.SessionView, error) {
	var out game.SessionView
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/session", token, map[string]any{
		"industry": industry,
	}, &out)
	return out, err
}

func (c *Client) Session(ctx context.Context, token string) (game.SessionView, error) {
	var out game.SessionView
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/session", token, nil, &out)
	return out, err
}

func (c *Client) PlayTurn(ctx context.Context, token string, in sim.TurnInput, dilemmaOption int) (game.TurnOutcome, error) {
	var out game.TurnOutcome
	payload := map[string]any{"inputs": in}
	if dilemmaOption >= 0 {
		payload["dilemma_option"] = dilemmaOption
	}
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/session/turn", token, payload, &out)
	return out, err
}

func (c *Client) AcceptBailout(ctx context.Context, token string) (game.SessionView, error) {
	var out game.SessionView
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/session/bailout/accept", token, map[string]any{}, &out)
	return out, err
}

func (c *Client) Resign(ctx context.Context, token string) (game.FinalReport, error) {
	var out game.FinalReport
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/session/resign", token, map[string]any{}, &out)
	return out, err
}

func (c *Client) Advisor(ctx context.Context, token string) (game.AdvisorReport, error) {
	var out game.AdvisorReport
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/session/advisor", token, map[string]any{}, &out)
	return out, err
}

func (c *Client) Oracle(ctx context.Context, token string) (game.OracleReport, error) {
	var out game.OracleReport
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/session/oracle", token, map[string]any{}, &out)
	return out, err
}

func (c *Client) Liquidate(ctx context.Context, token string, discount float64) (game.LiquidationReport, error) {
	var out game.LiquidationReport
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/session/liquidate", token, map[string]any{
		"discount": discount,
	}, &out)
	return out, err
}

func (c *Client) Report(ctx context.Context, token string) (game.FinalReport, error) {
	var out game.FinalReport
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/session/report", token, nil, &out)
	return out, err
}

func (c *Client) Leaderboard(ctx context.Context, token string) ([]game.LeaderboardRow, error) {
	var out struct {
		Leaderboard []game.LeaderboardRow `json:"leaderboard"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/leaderboard", token, nil, &out)
	return out.Leaderboard, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, token string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
