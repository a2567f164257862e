package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/evandahm/reviewdesk/internal/catalog"
)

type catalogEnvelope struct {
	Data []catalog.Organization `json:"data"`
}

// All fetches the full organization catalog in one unpaginated bulk call.
func (c *Client) All(ctx context.Context) ([]catalog.Organization, error) {
	body, err := c.get(ctx, c.cfg.CatalogURL+"/organizations/")
	if err != nil {
		return nil, fmt.Errorf("fetch organizations: %w", err)
	}

	var envelope catalogEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode organizations: %w", err)
	}
	return envelope.Data, nil
}
