package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production endpoint of the platform API.
const DefaultBaseURL = "https://api.weixin.qq.com"

// Client calls the messaging platform's HTTP API.
type Client struct {
	appID      string
	appSecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client. An empty baseURL selects the
// production endpoint.
func NewClient(appID, appSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		appID:      appID,
		appSecret:  appSecret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Token is a bearer credential issued by the platform together with its
// lifetime in seconds.
type Token struct {
	AccessToken string
	ExpiresIn   int64
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
}

// FetchToken requests a fresh access token. The platform reports errors
// in-band, so a 200 response may still carry an error payload.
func (c *Client) FetchToken(ctx context.Context) (Token, error) {
	q := url.Values{}
	q.Set("grant_type", "client_credential")
	q.Set("appid", c.appID)
	q.Set("secret", c.appSecret)
	u := c.baseURL + "/cgi-bin/token?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Token{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return Token{}, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Token{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return Token{}, fmt.Errorf("token endpoint error %d: %s", tr.ErrCode, tr.ErrMsg)
	}
	if tr.ExpiresIn == 0 {
		tr.ExpiresIn = 7200
	}
	return Token{AccessToken: tr.AccessToken, ExpiresIn: tr.ExpiresIn}, nil
}

type sendRequest struct {
	ToUser  string   `json:"touser"`
	MsgType string   `json:"msgtype"`
	Text    sendText `json:"text"`
}

type sendText struct {
	Content string `json:"content"`
}

type sendResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// SendText delivers a text message to one subscriber through the custom
// message API. A non-zero errcode in the response is a failure.
func (c *Client) SendText(ctx context.Context, accessToken, openID, content string) error {
	u := c.baseURL + "/cgi-bin/message/custom/send?access_token=" + url.QueryEscape(accessToken)
	payload, err := json.Marshal(sendRequest{ToUser: openID, MsgType: "text", Text: sendText{Content: content}})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read send response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send endpoint returned %d: %s", resp.StatusCode, string(body))
	}
	var sr sendResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return fmt.Errorf("failed to decode send response: %w", err)
	}
	if sr.ErrCode != 0 {
		return fmt.Errorf("send rejected with errcode %d: %s", sr.ErrCode, sr.ErrMsg)
	}
	return nil
}
