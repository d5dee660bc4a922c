// Package safeway implements the safeway.com retrieval source over plain
// HTTP with HTML parsing.
package safeway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cartscout/backend/internal/domain"
	"github.com/cartscout/backend/internal/logger"
)

const (
	sourceID = "safeway"

	// DefaultBaseURL is the production site; tests point the source at an
	// httptest server instead.
	DefaultBaseURL = "https://www.safeway.com"

	cardsPerQuery = 5
	enoughRecords = 3
	maxAttempts   = 3
)

// priceRegex pulls the numeric part out of a rendered price like "$3.49".
var priceRegex = regexp.MustCompile(`\d+\.?\d*`)

// Source scrapes safeway.com search result pages. Requests share a cookie
// jar so an authenticated session carries into searches, and are paced by a
// rate limiter out of politeness to the site.
type Source struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	normalizer domain.TitleNormalizer
	log        logger.Interface
	baseURL    string
}

// New creates a safeway source against the given base URL.
func New(normalizer domain.TitleNormalizer, log logger.Interface, baseURL string) *Source {
	jar, _ := cookiejar.New(nil)
	return &Source{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		// One request every 2 seconds, small burst for the retry path.
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 3),
		normalizer: normalizer,
		log:        log.With(zap.String("source", sourceID)),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string { return sourceID }

// Authenticate posts the sign-in form and reports whether the site accepted
// the session.
func (s *Source) Authenticate(ctx context.Context, creds domain.Credentials) (bool, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}

	form := url.Values{}
	form.Set("userId", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/account/sign-in.html", strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// Search fetches the results page for each query phrasing and extracts
// candidate records, stopping once enough are gathered. Unparsable cards are
// dropped individually with a warning; a transport or server failure aborts
// the whole search as a retrieval failure.
func (s *Source) Search(ctx context.Context, product domain.RequestedProduct) ([]domain.ObservedRecord, error) {
	records := make([]domain.ObservedRecord, 0, enoughRecords)
	for _, query := range product.Queries() {
		doc, err := s.fetchResults(ctx, query)
		if err != nil {
			return nil, err
		}

		doc.Find(".product-item-inner").EachWithBreak(func(i int, card *goquery.Selection) bool {
			if i >= cardsPerQuery {
				return false
			}
			record, err := s.parseCard(card)
			if err != nil {
				s.log.Warn("dropping candidate", zap.Error(err), zap.String("query", query))
				return true
			}
			records = append(records, record)
			return true
		})

		if len(records) >= enoughRecords {
			break
		}
	}

	return records, nil
}

// fetchResults GETs the search results page, retrying transient failures
// with exponential backoff.
func (s *Source) fetchResults(ctx context.Context, query string) (*goquery.Document, error) {
	searchURL := fmt.Sprintf("%s/shop/search-results.html?q=%s",
		s.baseURL, url.QueryEscape(query))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		doc, retryable, err := s.fetchOnce(ctx, searchURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !retryable {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(exponentialBackoff(attempt)):
		}
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, lastErr)
}

func (s *Source) fetchOnce(ctx context.Context, searchURL string) (doc *goquery.Document, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("search returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err = goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return doc, false, nil
}

// exponentialBackoff returns the delay before the given retry attempt:
// 500ms, 1s, 2s.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

// parseCard turns one product card into an ObservedRecord. A card without a
// title is malformed; a missing or unparsable price yields a zero price with
// the record retained.
func (s *Source) parseCard(card *goquery.Selection) (domain.ObservedRecord, error) {
	titleLink := card.Find(".product-title a").First()
	title := strings.TrimSpace(titleLink.Text())
	if title == "" {
		return domain.ObservedRecord{}, fmt.Errorf("%w: card has no title", domain.ErrMalformedRecord)
	}

	referenceURL, _ := titleLink.Attr("href")
	if referenceURL != "" && strings.HasPrefix(referenceURL, "/") {
		referenceURL = s.baseURL + referenceURL
	}

	price := decimal.Zero
	priceText := card.Find(".product-price .notranslate").First().Text()
	if m := priceRegex.FindString(priceText); m != "" {
		if parsed, err := decimal.NewFromString(m); err == nil && !parsed.IsNegative() {
			price = parsed
		}
	}

	brand, size, unit := s.normalizer.Normalize(title)
	return domain.ObservedRecord{
		SourceID:     sourceID,
		RawName:      title,
		Brand:        brand,
		SizeText:     size,
		UnitText:     unit,
		Price:        price,
		ReferenceURL: referenceURL,
		ObservedAt:   time.Now(),
		Available:    true,
	}, nil
}

// Release drops idle connections; the source holds no other resources.
func (s *Source) Release() {
	s.httpClient.CloseIdleConnections()
}
