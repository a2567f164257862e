package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/evandahm/reviewdesk/internal/identity"
)

// CurrentUser fetches the authenticated-identity payload from the
// identity service.
func (c *Client) CurrentUser(ctx context.Context) (identity.Payload, error) {
	var payload identity.Payload

	body, err := c.get(ctx, c.cfg.IdentityURL+"/users/me/")
	if err != nil {
		return payload, fmt.Errorf("current user: %w", err)
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, fmt.Errorf("decode identity payload: %w", err)
	}
	return payload, nil
}
