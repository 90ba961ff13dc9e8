package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"

	"yahooscraper/cache"
	"yahooscraper/coerce"
	"yahooscraper/fetch"
	"yahooscraper/fund"
)

// Handler serves the scraping API.
type Handler struct {
	fetcher fetch.Fetcher
	store   *cache.Cache
	log     *logrus.Logger
	baseURL string
	ttl     time.Duration
}

// NewHandler wires the API against a page fetcher and a response cache.
func NewHandler(fetcher fetch.Fetcher, store *cache.Cache, log *logrus.Logger, baseURL string, ttl time.Duration) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{fetcher: fetcher, store: store, log: log, baseURL: baseURL, ttl: ttl}
}

// Register mounts the API routes.
func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/fund/{ticker}/links", h.links).Methods(http.MethodGet)
	router.HandleFunc("/fund/{ticker}/summary", h.page(PageSummary)).Methods(http.MethodGet)
	router.HandleFunc("/fund/{ticker}/holdings", h.page(PageHoldings)).Methods(http.MethodGet)
	router.HandleFunc("/fund/{ticker}/profile", h.page(PageProfile)).Methods(http.MethodGet)
	router.HandleFunc("/fund/{ticker}/risk", h.page(PageRisk)).Methods(http.MethodGet)
	router.HandleFunc("/fund/{ticker}/performance", h.performance).Methods(http.MethodGet)
	router.HandleFunc("/fund/{ticker}/report", h.report).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
}

// pageScrapes routes a page name to its scrape method. Performance is
// handled separately because it returns three tables, not one.
var pageScrapes = map[string]func(*Scraper, context.Context) (fund.Table, error){
	PageSummary:  (*Scraper).Summary,
	PageHoldings: (*Scraper).Holdings,
	PageProfile:  (*Scraper).Profile,
	PageRisk:     (*Scraper).Risk,
}

func (h *Handler) page(page string) http.HandlerFunc {
	scrape := pageScrapes[page]
	return func(w http.ResponseWriter, r *http.Request) {
		scraper, ok := h.scraperFor(w, r)
		if !ok {
			return
		}

		payload, err := cache.Memoize(h.store, h.cacheKey(scraper.Ticker(), page), h.ttl, func() (json.RawMessage, error) {
			table, err := scrape(scraper, r.Context())
			if err != nil {
				return nil, err
			}
			return json.Marshal(table)
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, payload)
	}
}

func (h *Handler) performance(w http.ResponseWriter, r *http.Request) {
	scraper, ok := h.scraperFor(w, r)
	if !ok {
		return
	}

	payload, err := cache.Memoize(h.store, h.cacheKey(scraper.Ticker(), PagePerformance), h.ttl, func() (json.RawMessage, error) {
		perf, err := scraper.Performance(r.Context())
		if err != nil {
			return nil, err
		}
		return json.Marshal(perf)
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, payload)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	scraper, ok := h.scraperFor(w, r)
	if !ok {
		return
	}

	payload, err := cache.Memoize(h.store, h.cacheKey(scraper.Ticker(), "report"), h.ttl, func() (json.RawMessage, error) {
		report, err := scraper.Report(r.Context())
		if err != nil {
			return nil, err
		}
		return json.Marshal(report)
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, payload)
}

// linksResponse lists the discovered page names next to the raw link map,
// so clients can probe navigation changes cheaply.
type linksResponse struct {
	Ticker string     `json:"ticker"`
	Pages  []string   `json:"pages"`
	Links  fund.Links `json:"links"`
}

func (h *Handler) links(w http.ResponseWriter, r *http.Request) {
	scraper, ok := h.scraperFor(w, r)
	if !ok {
		return
	}

	payload, err := cache.Memoize(h.store, h.cacheKey(scraper.Ticker(), "links"), h.ttl, func() (json.RawMessage, error) {
		links, err := scraper.ResolveLinks(r.Context())
		if err != nil {
			return nil, err
		}
		pages := maps.Keys(links)
		sort.Strings(pages)
		return json.Marshal(linksResponse{Ticker: scraper.Ticker(), Pages: pages, Links: links})
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, payload)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// scraperFor builds a scraper for the request's ticker, answering 400 on
// a symbol that fails validation.
func (h *Handler) scraperFor(w http.ResponseWriter, r *http.Request) (*Scraper, bool) {
	ticker := mux.Vars(r)["ticker"]
	scraper, err := NewScraper(Config{Ticker: ticker, BaseURL: h.baseURL}, h.fetcher, h.log)
	if err != nil {
		h.log.WithField("ticker", ticker).WithError(err).Warn("rejecting request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return scraper, true
}

func (h *Handler) cacheKey(ticker, page string) string {
	return fmt.Sprintf("yahoo:%s:%s", ticker, strings.ToLower(page))
}

// writeError maps the scraping error taxonomy onto HTTP statuses: a
// transport failure is a bad gateway, an unrecognized page layout a not
// found, and cell text that matched a coercion rule but would not convert
// an unprocessable page.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fetch.ErrNetwork):
		status = http.StatusBadGateway
	case errors.Is(err, fund.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, coerce.ErrFormat):
		status = http.StatusUnprocessableEntity
	}

	h.log.WithFields(logrus.Fields{"path": r.URL.Path, "status": status}).WithError(err).Error("request failed")
	http.Error(w, err.Error(), status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}
