package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/giftswap/internal/client/config"
	"github.com/dmitrijs2005/giftswap/internal/client/history"
	"github.com/dmitrijs2005/giftswap/internal/client/models"
	"github.com/dmitrijs2005/giftswap/internal/client/services"
	"github.com/dmitrijs2005/giftswap/internal/client/storage"
	"github.com/dmitrijs2005/giftswap/internal/logging"
	"github.com/dmitrijs2005/giftswap/internal/pairing"
)

const banner = "Simplify your gift exchange (type 'help' for commands)"

type App struct {
	service services.ExchangeService
	logger  logging.Logger
	closer  io.Closer
	reader  *bufio.Reader
	// promptOut receives prompts; it discards them when stdin is not a terminal.
	promptOut   io.Writer
	interactive bool

	// active is the list being edited. It stays the source of truth for the
	// session even when saving it fails.
	active  *models.List
	unsaved bool
	// listed is what the last history command printed, so select can take a number.
	listed []models.List
	// shown is the participant order the last show printed, so remove #n can
	// address one of several participants sharing a name.
	shown []models.Participant
}

// NewApp opens the configured storage and wires the list history, the
// pairing generator and the exchange service.
func NewApp(ctx context.Context, cfg *config.Config, logger *logging.SlogLogger) (*App, error) {
	repo, closer, err := storage.Open(ctx, storage.Options{
		Driver: cfg.StorageDriver,
		Path:   cfg.DataPath,
		Logger: logger.Slog(),
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	store := history.NewStore(repo, cfg.HistoryKey, logger)
	svc := services.NewExchangeService(store, pairing.NewDefault(), logger)

	app := newApp(svc, logger, bufio.NewReader(os.Stdin), stdinIsTerminal())
	app.closer = closer
	return app, nil
}

func newApp(svc services.ExchangeService, logger logging.Logger, reader *bufio.Reader, interactive bool) *App {
	a := &App{
		service:     svc,
		logger:      logger,
		reader:      reader,
		promptOut:   io.Discard,
		interactive: interactive,
	}
	if interactive {
		a.promptOut = os.Stdout
	}
	return a
}

// Run prints the banner and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn(banner)
	runREPL(ctx, a, a.getStatus, a.reader, a.interactive)
}

// Close releases the storage.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

func (a *App) hasList() bool {
	return a.active != nil
}

func (a *App) getStatus() string {
	if a.active == nil {
		return ""
	}
	if a.unsaved {
		return fmt.Sprintf(" [%s, unsaved]", a.active.Title)
	}
	return fmt.Sprintf(" [%s]", a.active.Title)
}
