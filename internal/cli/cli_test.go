package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/backendtest"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

type fakeBroker struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *fakeBroker) Publish(_ context.Context, e events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *fakeBroker) ConsumeEvents(_ context.Context, handler func(events.Event) error) error {
	b.mu.Lock()
	pending := append([]events.Event(nil), b.events...)
	b.mu.Unlock()
	for _, e := range pending {
		if err := handler(e); err != nil {
			return err
		}
	}
	return nil
}

func (b *fakeBroker) Close() error { return nil }

type cliEnv struct {
	srv      *backendtest.Server
	repo     *repositories.MockStorageRepository
	broker   *fakeBroker
	password string
}

func newEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STOREFRONT_CONFIG", "")
	t.Setenv("STOREFRONT_LOG_LEVEL", "error")

	return &cliEnv{
		srv:    backendtest.New(t),
		repo:   repositories.NewMockStorageRepository(),
		broker: &fakeBroker{},
	}
}

func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(
		WithIO(strings.NewReader(stdin), &out, &errOut),
		WithStorage(e.repo),
		WithEventBroker(e.broker),
		WithPasswordReader(func(int) ([]byte, error) { return []byte(e.password), nil }),
	)
	cmd.SetArgs(append([]string{"--api-url", e.srv.URL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProductsList(t *testing.T) {
	env := newEnv(t)
	env.srv.SeedProduct(models.Product{ID: "lamp", Name: "Desk Lamp", Price: 29.5, Stock: 4, Rating: models.ProductRating{Average: 4.5, Count: 2}})
	env.srv.SeedProduct(models.Product{ID: "sofa", Name: "Sofa", Price: 900, Stock: 0})

	out, err := env.run(t, "", "products", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Desk Lamp")
	assert.Contains(t, out, "$29.50")
	assert.Contains(t, out, "4.5 (2)")
	assert.Contains(t, out, "out of stock")

	out, err = env.run(t, "", "products", "list", "--search", "sofaa")
	require.NoError(t, err)
	assert.Contains(t, out, "Sofa")
	assert.NotContains(t, out, "Desk Lamp")

	out, err = env.run(t, "", "products", "list", "--search", "television")
	require.NoError(t, err)
	assert.Equal(t, "No products found.\n", out)
}

func TestSignInCartCheckoutFlow(t *testing.T) {
	env := newEnv(t)
	_, err := env.srv.SeedUser("ada@example.com", "secret", "Ada", "Lovelace", false)
	require.NoError(t, err)
	env.srv.SeedProduct(models.Product{ID: "lamp", Name: "Desk Lamp", Price: 30, Stock: 4})

	out, err := env.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not signed in.\n", out)

	_, err = env.run(t, "", "cart", "add", "lamp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")

	env.password = "secret"
	out, err = env.run(t, "ada@example.com\n", "signin")
	require.NoError(t, err)
	assert.Equal(t, "Signed in as Ada Lovelace.\n", out)

	out, err = env.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace <ada@example.com> (customer)\n", out)

	out, err = env.run(t, "", "cart", "add", "lamp", "-q", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2 x Desk Lamp.")
	assert.Contains(t, out, "2 items, total $60.00")

	out, err = env.run(t, "", "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Desk Lamp")

	out, err = env.run(t, "", "cart", "checkout")
	require.NoError(t, err)
	assert.Equal(t, "Order placed: 2 items, $60.00.\n", out)

	out, err = env.run(t, "", "cart", "checkout")
	require.NoError(t, err)
	assert.Equal(t, "Your cart is empty.\n", out)

	out, err = env.run(t, "", "logout")
	require.NoError(t, err)
	assert.Equal(t, "Signed out.\n", out)

	_, err = env.run(t, "", "products", "list")
	require.NoError(t, err)
	assert.Equal(t, "null", env.srv.LastUserID())
}

func TestSignIn_InvalidForm(t *testing.T) {
	env := newEnv(t)

	_, err := env.run(t, "", "signin", "--email", "  ", "--password", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email is required")
}

func TestSignUpAndReview(t *testing.T) {
	env := newEnv(t)
	env.srv.SeedProduct(models.Product{ID: "lamp", Name: "Desk Lamp", Price: 30, Stock: 4})

	out, err := env.run(t, "", "signup", "--first-name", "Grace", "--last-name", "Hopper", "-e", "grace@example.com", "-p", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Signed in as Grace Hopper.\n", out)

	_, err = env.run(t, "", "reviews", "add", "lamp", "--rating", "7", "--comment", "ok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rating must be between 1 and 5")

	out, err = env.run(t, "", "reviews", "add", "lamp", "-r", "5", "-c", "Lovely light")
	require.NoError(t, err)
	assert.Equal(t, "Thanks! You rated it 5/5.\n", out)

	out, err = env.run(t, "", "products", "reviews", "lamp")
	require.NoError(t, err)
	assert.Contains(t, out, "★★★★★ Grace Hopper")
	assert.Contains(t, out, "Lovely light")
}

func TestAdminCommands(t *testing.T) {
	env := newEnv(t)
	_, err := env.srv.SeedUser("root@example.com", "pw", "Root", "Admin", true)
	require.NoError(t, err)
	_, err = env.srv.SeedUser("sam@example.com", "pw", "Sam", "Shopper", false)
	require.NoError(t, err)
	env.srv.SeedProduct(models.Product{ID: "desk", Name: "Standing Desk", Price: 400, Stock: 0})

	_, err = env.run(t, "", "signin", "-e", "sam@example.com", "-p", "pw")
	require.NoError(t, err)
	_, err = env.run(t, "", "admin", "stock", "desk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an admin account")

	_, err = env.run(t, "", "logout")
	require.NoError(t, err)
	out, err := env.run(t, "", "signin", "-e", "root@example.com", "-p", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin tools")

	out, err = env.run(t, "", "admin", "stock", "desk")
	require.NoError(t, err)
	assert.Equal(t, "Standing Desk now has 1 in stock.\n", out)

	out, err = env.run(t, "", "admin", "dashboard", "--width", "80")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Products")
	assert.Contains(t, out, "Standing Desk")
}

func TestEventsTail(t *testing.T) {
	env := newEnv(t)
	_, err := env.srv.SeedUser("ada@example.com", "secret", "Ada", "Lovelace", false)
	require.NoError(t, err)

	_, err = env.run(t, "", "signin", "-e", "ada@example.com", "-p", "secret")
	require.NoError(t, err)
	_, err = env.run(t, "", "logout")
	require.NoError(t, err)

	out, err := env.run(t, "", "events", "tail")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	var first events.Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, events.SessionSignedIn, first.Type)
	assert.Contains(t, lines[1], `"type":"session.logged_out"`)
}

func TestEventsTail_NotConfigured(t *testing.T) {
	env := newEnv(t)
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(WithIO(strings.NewReader(""), &out, &errOut), WithStorage(env.repo))
	cmd.SetArgs([]string{"--api-url", env.srv.URL, "events", "tail"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events.rabbitmq_url")
}

func TestInvalidAPIURL(t *testing.T) {
	env := newEnv(t)
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(WithIO(strings.NewReader(""), &out, &errOut), WithStorage(env.repo))
	cmd.SetArgs([]string{"--api-url", "localhost:4000", "whoami"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start with http")
}

func TestDevBackend(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(WithIO(strings.NewReader(""), &out, &errOut))
	cmd.SetArgs([]string{"dev-backend", "--addr", "127.0.0.1:0", "-q"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "Backend listening on http://127.0.0.1:")
}
