// Package walmart implements the walmart.com retrieval source through a
// headless browser.
package walmart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cartscout/backend/internal/domain"
	"github.com/cartscout/backend/internal/logger"
)

const (
	sourceID = "walmart"
	baseURL  = "https://www.walmart.com"

	// tilesPerQuery caps how many product tiles are read per search term;
	// enoughRecords stops the remaining terms once satisfied.
	tilesPerQuery = 5
	enoughRecords = 3

	pageSettle = 2 * time.Second
	runTimeout = 60 * time.Second
)

// Source scrapes walmart.com search results. The browser is started lazily
// on first use and torn down by Release, so the source can be reused across
// comparisons.
type Source struct {
	normalizer domain.TitleNormalizer
	log        logger.Interface
	headless   bool

	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	browserCtx    context.Context
}

// New creates a walmart source.
func New(normalizer domain.TitleNormalizer, log logger.Interface, headless bool) *Source {
	return &Source{
		normalizer: normalizer,
		log:        log.With(zap.String("source", sourceID)),
		headless:   headless,
	}
}

// ID returns the source identifier.
func (s *Source) ID() string { return sourceID }

// browser returns the shared browser context, starting it on first call.
func (s *Source) browser(ctx context.Context) (context.Context, error) {
	if s.browserCtx != nil {
		return s.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	s.allocCancel = allocCancel
	s.browserCancel = browserCancel
	s.browserCtx = browserCtx
	return browserCtx, nil
}

// Authenticate drives the walmart.com login form and reports whether the
// session left the login page.
func (s *Source) Authenticate(ctx context.Context, creds domain.Credentials) (bool, error) {
	browserCtx, err := s.browser(ctx)
	if err != nil {
		return false, err
	}

	runCtx, cancel := context.WithTimeout(browserCtx, runTimeout)
	defer cancel()

	var currentURL string
	err = chromedp.Run(runCtx,
		chromedp.Navigate(baseURL+"/account/login"),
		chromedp.WaitVisible(`#email`, chromedp.ByID),
		chromedp.SendKeys(`#email`, creds.Username, chromedp.ByID),
		chromedp.SendKeys(`#password`, creds.Password, chromedp.ByID),
		chromedp.Click(`[data-automation-id="signin-submit-btn"]`, chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
		chromedp.Location(&currentURL),
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}

	return !strings.Contains(currentURL, "account/login"), nil
}

// productTile mirrors the fields pulled out of a search result tile.
type productTile struct {
	Title string `json:"title"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// tilesScript extracts product tiles from a loaded search results page.
var tilesScript = fmt.Sprintf(`
	Array.from(document.querySelectorAll('[data-testid="item-stack"] [data-item-id]')).slice(0, %d).map(function(el) {
		var title = el.querySelector('[data-automation-id="product-title"]');
		var price = el.querySelector('[itemprop="price"]');
		var link = el.querySelector('a');
		return {
			title: title ? title.textContent.trim() : '',
			price: price ? (price.getAttribute('content') || price.textContent) : '',
			url: link ? link.href : ''
		};
	})
`, tilesPerQuery)

// Search loads the search results page for each query phrasing and extracts
// candidate records. Remaining phrasings are skipped once enough records are
// gathered. Unparsable tiles are dropped individually with a warning.
func (s *Source) Search(ctx context.Context, product domain.RequestedProduct) ([]domain.ObservedRecord, error) {
	browserCtx, err := s.browser(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]domain.ObservedRecord, 0, enoughRecords)
	for _, query := range product.Queries() {
		tiles, err := s.loadTiles(browserCtx, query)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, err)
		}

		for _, tile := range tiles {
			record, err := s.parseTile(tile)
			if err != nil {
				s.log.Warn("dropping candidate", zap.Error(err), zap.String("query", query))
				continue
			}
			records = append(records, record)
		}

		if len(records) >= enoughRecords {
			break
		}
	}

	return records, nil
}

func (s *Source) loadTiles(browserCtx context.Context, query string) ([]productTile, error) {
	runCtx, cancel := context.WithTimeout(browserCtx, runTimeout)
	defer cancel()

	searchURL := baseURL + "/search?q=" + strings.ReplaceAll(query, " ", "+")

	var tiles []productTile
	err := chromedp.Run(runCtx,
		chromedp.Navigate(searchURL),
		chromedp.Sleep(pageSettle),
		chromedp.Evaluate(tilesScript, &tiles),
	)
	if err != nil {
		return nil, err
	}
	return tiles, nil
}

// parseTile turns one extracted tile into an ObservedRecord. A missing title
// is malformed; an unparsable price yields a zero price and the record is
// retained so downstream can still see the listing.
func (s *Source) parseTile(tile productTile) (domain.ObservedRecord, error) {
	if strings.TrimSpace(tile.Title) == "" {
		return domain.ObservedRecord{}, fmt.Errorf("%w: tile has no title", domain.ErrMalformedRecord)
	}

	price := decimal.Zero
	if parsed, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(tile.Price), "$")); err == nil && !parsed.IsNegative() {
		price = parsed
	}

	brand, size, unit := s.normalizer.Normalize(tile.Title)
	return domain.ObservedRecord{
		SourceID:     sourceID,
		RawName:      tile.Title,
		Brand:        brand,
		SizeText:     size,
		UnitText:     unit,
		Price:        price,
		ReferenceURL: tile.URL,
		ObservedAt:   time.Now(),
		Available:    true,
	}, nil
}

// Release tears down the browser. The next Authenticate or Search starts a
// fresh one.
func (s *Source) Release() {
	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.browserCtx = nil
}
