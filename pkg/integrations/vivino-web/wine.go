package vivinoweb

import (
	"encoding/json"
	"strings"

	"github.com/gocolly/colly/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"wineraise.dev/WineRaise/pkg/model"
)

type WineJSON struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Manufacturer struct {
		Name string `json:"name"`
	} `json:"manufacturer"`
	Offers []struct {
		Price         string `json:"price"`
		PriceCurrency string `json:"priceCurrency"`
	} `json:"offers"`
	AggregateRating struct {
		RatingValue float64 `json:"ratingValue"`
		ReviewCount int     `json:"reviewCount"`
	} `json:"aggregateRating"`
}

type WineScraped struct {
	IDLink string `attr:"href"                     selector:".wine-card__name a"`
	Name   string `selector:".wine-card__name"`
	Winery string `selector:".wine-card__subtext"`
	Region string `selector:".wine-card__region"`
}

type WineContent struct {
	Description string `selector:".wine-description"`
	Price       string `selector:".purchase-availability .price"`
}

type scrapeResults struct {
	wines []model.Wine
	err   error
}

func (v *VivinoWebIntegration) FindWine(name string) ([]model.Wine, error) {
	collector := colly.NewCollector(
		colly.AllowedDomains("www.vivino.com", "vivino.com"),
		colly.UserAgent("Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:15.0) Gecko/20100101 Firefox/15.0.1"),
	)

	var (
		errs         error
		scrapedPages []WineScraped
	)

	collector.OnHTML(".default-wine-card", func(element *colly.HTMLElement) {
		scraped := WineScraped{}

		err := element.Unmarshal(&scraped)
		if multierr.AppendInto(&errs, err) {
			v.logger.Error("failed to unmarshal scraped wine", zap.Error(err))

			return
		}

		v.logger.Info("successfully scraped item from results", zap.String("link", scraped.IDLink), zap.String("name", scraped.Name))

		scrapedPages = append(scrapedPages, scraped)
	})

	collector.OnError(func(response *colly.Response, err error) {
		v.logger.Error("error while scraping wine search results", zap.String("url", response.Request.URL.String()), zap.Error(err))
	})

	v.logger.Info("scraping query results", zap.String("query", name))
	multierr.AppendInto(&errs, collector.Visit("https://www.vivino.com/search/wines?q="+name))

	wineChan := make(chan scrapeResults, len(scrapedPages))

	for _, scraped := range scrapedPages {
		go v.getWineData(collector.Clone(), scraped, wineChan)
	}

	results, scrapeErr := drainResults(wineChan, len(scrapedPages))
	multierr.AppendInto(&errs, scrapeErr)

	v.logger.Info("finished scraping query results", zap.Any("results", results), zap.Error(errs))

	return results, errs
}

// drainResults is the only reader of wineChan, so the detail-page
// goroutines never touch the shared slices.
func drainResults(wineChan chan scrapeResults, count int) ([]model.Wine, error) {
	var (
		errs    error
		results []model.Wine
	)

	for i := 0; i < count; i++ {
		scraped := <-wineChan
		results = append(results, scraped.wines...)
		multierr.AppendInto(&errs, scraped.err)
	}

	return results, errs
}

func (v *VivinoWebIntegration) getWineData(detailCollector *colly.Collector, scraped WineScraped, wineChan chan scrapeResults) {
	region, country := splitRegion(scraped.Region)

	wine := model.Wine{
		Name:    strings.TrimSpace(scraped.Name),
		Winery:  stringPointer(strings.TrimSpace(scraped.Winery)),
		Region1: region,
		Country: country,
	}

	detailCollector.OnHTML("head script[type='application/ld+json']", func(element *colly.HTMLElement) {
		var wineJSON WineJSON
		_ = json.Unmarshal([]byte(element.Text), &wineJSON)

		v.logger.Info("successfully scraped wine from JSON data", zap.String("name", wineJSON.Name), zap.String("description", wineJSON.Description))

		wine.Description = stringPointer(wineJSON.Description)

		if wineJSON.Manufacturer.Name != "" {
			wine.Winery = stringPointer(wineJSON.Manufacturer.Name)
		}

		if len(wineJSON.Offers) > 0 {
			wine.Price = extractPrice(wineJSON.Offers[0].Price)
		}
	})

	detailCollector.OnHTML(".wine-page", func(element *colly.HTMLElement) {
		wineContent := WineContent{}

		err := element.Unmarshal(&wineContent)
		if err != nil {
			return
		}

		if wine.Description == nil {
			wine.Description = stringPointer(strings.TrimSpace(wineContent.Description))
		}

		if wine.Price == nil {
			wine.Price = extractPrice(wineContent.Price)
		}
	})

	v.logger.Info("scraping wine page", zap.String("link", scraped.IDLink))

	err := detailCollector.Visit("https://www.vivino.com" + scraped.IDLink)

	wineChan <- scrapeResults{wines: []model.Wine{wine}, err: err}
}

// splitRegion breaks a "Region, Country" card line into its parts. The
// country is everything after the final comma.
func splitRegion(text string) (*string, *string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	index := strings.LastIndex(text, ",")
	if index < 0 {
		return nil, stringPointer(text)
	}

	region := strings.TrimSpace(text[:index])
	country := strings.TrimSpace(text[index+1:])

	return stringPointer(region), stringPointer(country)
}

// extractPrice parses a scraped price string, tolerating a leading
// currency symbol and grouping commas.
func extractPrice(text string) *decimal.Decimal {
	text = strings.TrimSpace(text)
	text = strings.TrimLeft(text, "$€£")
	text = strings.ReplaceAll(text, ",", "")

	if text == "" {
		return nil
	}

	price, err := decimal.NewFromString(text)
	if err != nil {
		return nil
	}

	return &price
}

func stringPointer(value string) *string {
	if len(value) > 0 {
		return &value
	}

	return nil
}
