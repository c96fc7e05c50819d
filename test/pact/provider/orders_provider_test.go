//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/dispensa-escolar/pedidos-api/test/pact"

	httpapi "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/http"
	ordersmemory "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/application"
	orderdomain "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestOrdersProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetOrders(t)
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetOrders(t)
			if setup {
				app.seedOrder(t, pacttest.ExistingOrderID)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetOrders(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetOrders(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	repo   *ordersmemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	repo := ordersmemory.NewRepository()
	service := ordersobs.New(ordersapp.NewService(repo))
	orchestrator := ordersworkflows.NewInlineOrderWorkflows(service)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := httpapi.NewOrderAPI(service, orchestrator, logger)
	router := httpapi.NewRouter(api, pacttest.ProviderName, "*")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		repo:   repo,
		server: server,
	}
}

func (a *contractProviderApp) resetOrders(t testing.TB) {
	t.Helper()
	orders, err := a.repo.List(context.Background())
	require.NoError(t, err)
	for _, order := range orders {
		_ = a.repo.Delete(context.Background(), order.ID)
	}
}

func (a *contractProviderApp) seedOrder(t testing.TB, id int64) {
	t.Helper()
	order, err := orderdomain.NewOrder(
		pacttest.ExampleRequester,
		pacttest.ExampleOrderDate,
		pacttest.ExampleUnit,
		"weekly restock",
		[]orderdomain.OrderItem{
			{Name: "rice", Label: "Rice 5kg", Quantity: "5kg"},
			{Name: "beans", Quantity: "2kg"},
		},
	)
	require.NoError(t, err)
	order.ID = id
	a.repo.Seed(order)
}
