package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ChannelDirectory resolves a channel's chat id to a joinable invite link.
// The core only needs this one verb from the messaging side; membership
// enforcement happens through access grants, not active removal.
type ChannelDirectory interface {
	CreateInviteLink(ctx context.Context, chatId string) (string, error)
}

// Client talks to the Telegram Bot API.
type Client struct {
	botToken string
	baseURL  string
	http     *http.Client
	cache    sync.Map // chatId -> cachedLink
}

type cachedLink struct {
	link      string
	expiresAt time.Time
}

func NewClient(botToken string) *Client {
	return &Client{
		botToken: botToken,
		baseURL:  "https://api.telegram.org",
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

type inviteLinkResponse struct {
	Ok     bool `json:"ok"`
	Result struct {
		InviteLink string `json:"invite_link"`
	} `json:"result"`
	Description string `json:"description"`
}

// CreateInviteLink asks the bot API for a fresh invite link to the chat.
// Links are cached briefly so one buyer refreshing the portal does not
// hammer the bot API.
func (c *Client) CreateInviteLink(ctx context.Context, chatId string) (string, error) {
	if v, ok := c.cache.Load(chatId); ok {
		item := v.(cachedLink)
		if time.Now().Before(item.expiresAt) {
			return item.link, nil
		}
		c.cache.Delete(chatId)
	}

	endpoint := fmt.Sprintf("%s/bot%s/createChatInviteLink", c.baseURL, c.botToken)
	params := url.Values{}
	params.Set("chat_id", chatId)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed inviteLinkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("telegram response parse failed: %w", err)
	}
	if !parsed.Ok {
		return "", fmt.Errorf("telegram API error: %s", parsed.Description)
	}

	c.cache.Store(chatId, cachedLink{
		link:      parsed.Result.InviteLink,
		expiresAt: time.Now().Add(5 * time.Minute),
	})
	return parsed.Result.InviteLink, nil
}
