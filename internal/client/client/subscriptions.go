package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
)

func subscriptionPath(id, action string) string {
	return "/subscriptions/" + url.PathEscape(id) + "/" + action
}

func (c *HTTPClient) doSubscription(ctx context.Context, req Request) (*models.Subscription, error) {
	var s models.Subscription
	if err := c.Do(ctx, req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) UserSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	return c.doSubscription(ctx, Request{Path: "/subscriptions/user/" + url.PathEscape(userID)})
}

func (c *HTTPClient) ChangeSubscription(ctx context.Context, userID string, tier models.Tier) (*models.Subscription, error) {
	return c.doSubscription(ctx, Request{
		Method: http.MethodPost,
		Path:   "/subscriptions/change",
		Body: struct {
			UserID string      `json:"userId"`
			Tier   models.Tier `json:"tier"`
		}{userID, tier},
	})
}

func (c *HTTPClient) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: subscriptionPath(subscriptionID, "cancel")}, nil)
}

func (c *HTTPClient) UpdateAutoRenew(ctx context.Context, subscriptionID string, autoRenew bool) (*models.Subscription, error) {
	return c.doSubscription(ctx, Request{
		Method: http.MethodPatch,
		Path:   subscriptionPath(subscriptionID, "auto-renew"),
		Body:   map[string]bool{"autoRenew": autoRenew},
	})
}

func (c *HTTPClient) UpdatePaymentMethod(ctx context.Context, subscriptionID, paymentMethodID string) (*models.Subscription, error) {
	return c.doSubscription(ctx, Request{
		Method: http.MethodPatch,
		Path:   subscriptionPath(subscriptionID, "payment-method"),
		Body:   map[string]string{"paymentMethodId": paymentMethodID},
	})
}

func (c *HTTPClient) CheckContentAccess(ctx context.Context, userID, contentID string) (bool, error) {
	var out struct {
		HasAccess bool `json:"hasAccess"`
	}
	err := c.Do(ctx, Request{
		Path:  "/subscriptions/access-check",
		Query: url.Values{"userId": {userID}, "contentId": {contentID}},
	}, &out)
	if err != nil {
		return false, err
	}
	return out.HasAccess, nil
}
