package main

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"yahooscraper/browser"
	"yahooscraper/cache"
	"yahooscraper/config"
	"yahooscraper/fetch"
	"yahooscraper/scrape"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	var fetcher fetch.Fetcher = fetch.New(cfg.HTTPTimeout).
		WithUserAgent(cfg.UserAgent).
		WithAcceptLanguage(cfg.AcceptLanguage)
	if cfg.BrowserFallback {
		pool := browser.NewPool(cfg.BrowserPoolSize, cfg.BrowserTimeout)
		defer pool.Shutdown()
		fetcher = fetch.WithFallback(fetcher, pool)
		log.Info("browser fallback enabled")
	}

	store := cache.New(cfg.RedisAddr)
	defer store.Close()
	if store.Enabled() {
		log.Infof("caching responses in redis at %s for %s", cfg.RedisAddr, cfg.CacheTTL)
	}

	router := mux.NewRouter()
	scrape.NewHandler(fetcher, store, log, cfg.BaseURL, cfg.CacheTTL).Register(router)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	log.Infof("server is running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(log.Writer(), cors(router))))
}
