//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/dispensa-escolar/pedidos-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type envelopePayload struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type orderPayload struct {
	ID        int64  `json:"id"`
	Requester string `json:"requester"`
	OrderDate string `json:"order_date"`
	Unit      string `json:"unit"`
}

func TestOrdersPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	orderBodyMatcher := matchers.Map{
		"id":         matchers.Like(pacttest.ExistingOrderID),
		"requester":  matchers.Like(pacttest.ExampleRequester),
		"order_date": matchers.Term(pacttest.ExampleOrderDate, `\d{4}-\d{2}-\d{2}`),
		"unit":       matchers.Like(pacttest.ExampleUnit),
		"items": matchers.ArrayMinLike(matchers.Map{
			"name":     matchers.Like("rice"),
			"label":    matchers.Like("Rice 5kg"),
			"quantity": matchers.Like("5kg"),
		}, 1),
	}

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a request to create an order").
		WithRequest("POST", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("action", matchers.S("create"))
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.MapMatcher{
				"requester":  matchers.Like(pacttest.ExampleRequester),
				"order_date": matchers.Term(pacttest.ExampleOrderDate, `\d{4}-\d{2}-\d{2}`),
				"unit":       matchers.Like(pacttest.ExampleUnit),
				"items": matchers.ArrayMinLike(matchers.Map{
					"name":     matchers.Like("rice"),
					"quantity": matchers.Like("5kg"),
				}, 1),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"data":    matchers.Map{"id": matchers.Like(pacttest.ExistingOrderID)},
				"message": matchers.Like("order created"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request to fetch an existing order").
		WithRequest("GET", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("action", matchers.S("get"))
			b.Query("id", matchers.S(fmt.Sprintf("%d", pacttest.ExistingOrderID)))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"data":    orderBodyMatcher,
				"message": matchers.Like("order found"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("action", matchers.S("get"))
			b.Query("id", matchers.S(fmt.Sprintf("%d", pacttest.MissingOrderID)))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(false),
				"message": matchers.S("order not found"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrderClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		createdID, err := client.CreateOrder(ctx, pacttest.ExampleOrderPayload())
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if createdID == 0 {
			return fmt.Errorf("expected created order id to be set")
		}

		fetched, err := client.GetOrder(ctx, pacttest.ExistingOrderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if fetched == nil || fetched.ID != pacttest.ExistingOrderID {
			return fmt.Errorf("expected order id %d, got %+v", pacttest.ExistingOrderID, fetched)
		}

		missing, err := client.GetOrder(ctx, pacttest.MissingOrderID)
		if err != nil {
			return fmt.Errorf("get missing order: %w", err)
		}
		if missing != nil {
			return fmt.Errorf("expected missing order %d, got %+v", pacttest.MissingOrderID, missing)
		}

		return nil
	})
	require.NoError(t, err)
}

type orderClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOrderClient(config pactconsumer.MockServerConfig) *orderClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &orderClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *orderClient) CreateOrder(ctx context.Context, payload map[string]any) (int64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders?action=create", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	envelope, err := c.do(req)
	if err != nil {
		return 0, err
	}
	if !envelope.Success {
		return 0, fmt.Errorf("create rejected: %s", envelope.Message)
	}
	var data struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return 0, err
	}
	return data.ID, nil
}

// GetOrder returns nil without error when the API reports the order missing.
func (c *orderClient) GetOrder(ctx context.Context, id int64) (*orderPayload, error) {
	url := fmt.Sprintf("%s/api/orders?action=get&id=%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	envelope, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, nil
	}
	var order orderPayload
	if err := json.Unmarshal(envelope.Data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *orderClient) do(req *http.Request) (*envelopePayload, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	var envelope envelopePayload
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}
