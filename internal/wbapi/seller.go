package wbapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"wb-ledger-bot/internal/logger"
)

// SellerInfo probes the API key against the common API and returns the
// shop display name. A client fault here means the key is dead and the
// whole run should stop before spending minutes on paced fetches.
func (c *Client) SellerInfo(ctx context.Context) (string, error) {
	endpoint := c.cfg.Common.BaseURL + "/api/v1/seller-info"
	body, err := c.common.Do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return "", fmt.Errorf("seller info: %w", err)
	}

	var info struct {
		Name      string `json:"name"`
		TradeMark string `json:"tradeMark"`
		SID       string `json:"sid"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("decode seller info: %w", err)
	}

	name := strings.TrimSpace(info.TradeMark)
	if name == "" {
		name = strings.TrimSpace(info.Name)
	}
	if name == "" {
		name = "seller"
	}
	logger.Info(ctx, "seller key verified", "shop", name)
	return name, nil
}
