package cli

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/client/api"
	"github.com/dmitrijs2005/stockkeeper/internal/client/config"
	"github.com/dmitrijs2005/stockkeeper/internal/client/models"
)

// API is the part of the REST client the commands use.
type API interface {
	LoggedIn() bool
	Logout()
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Me(ctx context.Context) (string, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	LowStock(ctx context.Context) ([]models.Item, error)
	CreateItem(ctx context.Context, item models.NewItem) (*models.Item, error)
	Record(ctx context.Context, itemName, typ string, quantity int) (*models.Transaction, error)
	Transactions(ctx context.Context, item string) ([]models.Transaction, error)
	Stats(ctx context.Context) (*models.Stats, error)
	ExportCSV(ctx context.Context) ([]byte, error)
	Archive(ctx context.Context) (*models.Archive, error)
	HTTPClient() *http.Client
}

type App struct {
	config   *config.Config
	api      API
	userName string
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{
		config: c,
		api:    client,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		now:    time.Now,
	}, nil
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}
