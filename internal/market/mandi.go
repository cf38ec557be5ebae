package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoPrices = errors.New("no prices found")

// MandiProvider scrapes the daily price table of a mandi price page.
type MandiProvider struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewMandiProvider(baseURL string) *MandiProvider {
	return &MandiProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		now:     time.Now,
	}
}

// columns maps header names to their index in the price table.
type columns struct {
	commodity, variety, market, price, previous int
}

func findColumns(doc *goquery.Selection) columns {
	cols := columns{commodity: -1, variety: -1, market: -1, price: -1, previous: -1}
	doc.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		h := strings.ToLower(strings.TrimSpace(th.Text()))
		switch {
		case strings.Contains(h, "commodity"):
			cols.commodity = i
		case strings.Contains(h, "variety"):
			cols.variety = i
		case strings.Contains(h, "market") || strings.Contains(h, "mandi"):
			cols.market = i
		case strings.Contains(h, "previous") || strings.Contains(h, "prev"):
			cols.previous = i
		case strings.Contains(h, "modal") || strings.Contains(h, "price"):
			if cols.price < 0 {
				cols.price = i
			}
		}
	})
	return cols
}

func (p *MandiProvider) Prices(ctx context.Context, state, district string) ([]Price, error) {
	q := url.Values{}
	q.Set("state", state)
	q.Set("district", district)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mandi prices: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse mandi page: %w", err)
	}

	table := doc.Find("table").First()
	cols := findColumns(table)
	if cols.commodity < 0 || cols.price < 0 {
		return nil, fmt.Errorf("%w: price table not recognised", ErrNoPrices)
	}

	date := p.now().UTC().Format("2006-01-02")
	var out []Price
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		cell := func(i int) string {
			if i < 0 || i >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(i).Text())
		}

		name := cell(cols.commodity)
		price, ok := parseRupees(cell(cols.price))
		if name == "" || !ok {
			return
		}

		mkt := cell(cols.market)
		if mkt == "" {
			mkt = district + " Mandi"
		}
		pr := Price{
			ID:        strings.ToLower(name) + "-" + strconv.Itoa(len(out)),
			Commodity: name,
			Variety:   cell(cols.variety),
			Market:    mkt,
			District:  orUnknown(district),
			State:     orUnknown(state),
			Price:     price,
			Unit:      "quintal",
			Date:      date,
		}
		if prev, ok := parseRupees(cell(cols.previous)); ok {
			pr.Change = price - prev
			pr.ChangePercent = percent(pr.Change, prev)
		}
		out = append(out, pr)
	})

	if len(out) == 0 {
		return nil, ErrNoPrices
	}
	return out, nil
}

func parseRupees(s string) (int, bool) {
	s = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f + 0.5), true
}
