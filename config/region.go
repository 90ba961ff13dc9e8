package config

// Region holds the origin and request language of one Yahoo Finance
// edition.
type Region struct {
	Origin         string
	AcceptLanguage string
}

// Regions maps region codes to editions. Every edition serves the same
// page structure, though the extractors' header-label skip sets only
// cover the English markup.
var Regions = map[string]Region{
	"us": {"https://finance.yahoo.com", "en-US,en;q=0.5"},
	"uk": {"https://uk.finance.yahoo.com", "en-GB,en;q=0.5"},
	"ca": {"https://ca.finance.yahoo.com", "en-CA,en;q=0.5"},
	"au": {"https://au.finance.yahoo.com", "en-AU,en;q=0.5"},
	"nz": {"https://nz.finance.yahoo.com", "en-NZ,en;q=0.5"},
	"in": {"https://in.finance.yahoo.com", "en-IN,en;q=0.5"},
	"sg": {"https://sg.finance.yahoo.com", "en-SG,en;q=0.5"},
	"de": {"https://de.finance.yahoo.com", "de-DE,de;q=0.7,en;q=0.3"},
	"fr": {"https://fr.finance.yahoo.com", "fr-FR,fr;q=0.7,en;q=0.3"},
	"it": {"https://it.finance.yahoo.com", "it-IT,it;q=0.7,en;q=0.3"},
	"es": {"https://es.finance.yahoo.com", "es-ES,es;q=0.7,en;q=0.3"},
}
