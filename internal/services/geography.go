package services

import (
	"strings"

	"github.com/tropicaldog17/folio/internal/models"
)

const (
	CountryGlobal  = "GLOBAL"
	CountryDefault = "US"
)

// exchangeSuffixCountry maps ticker exchange suffixes (the part after the last
// dot) to ISO country codes.
var exchangeSuffixCountry = map[string]string{
	"L":  "GB",
	"IL": "GB",
	"TO": "CA",
	"V":  "CA",
	"NE": "CA",
	"DE": "DE",
	"F":  "DE",
	"PA": "FR",
	"AS": "NL",
	"BR": "BE",
	"MI": "IT",
	"MC": "ES",
	"LS": "PT",
	"SW": "CH",
	"VI": "AT",
	"IR": "IE",
	"ST": "SE",
	"OL": "NO",
	"CO": "DK",
	"HE": "FI",
	"WA": "PL",
	"HK": "HK",
	"T":  "JP",
	"SS": "CN",
	"SZ": "CN",
	"KS": "KR",
	"KQ": "KR",
	"TW": "TW",
	"SI": "SG",
	"AX": "AU",
	"NZ": "NZ",
	"NS": "IN",
	"BO": "IN",
	"SA": "BR",
	"MX": "MX",
	"JO": "ZA",
}

// InferCountry returns the country to tag a listed holding with when the user
// did not give one. Crypto is global. Stocks and funds use their exchange
// suffix; tickers without a known suffix (including US share classes such as
// BRK.B) fall back to the US.
func InferCountry(category models.Category, ticker string) string {
	if category == models.CategoryCrypto {
		return CountryGlobal
	}
	t := models.NormalizeTicker(ticker)
	if i := strings.LastIndex(t, "."); i >= 0 && i < len(t)-1 {
		if country, ok := exchangeSuffixCountry[t[i+1:]]; ok {
			return country
		}
	}
	return CountryDefault
}

// resolveCountry picks the explicit country when present, else the inferred
// one for listed entries.
func resolveCountry(entry *models.HoldingEntry) string {
	if c := strings.ToUpper(strings.TrimSpace(entry.Country)); c != "" {
		return c
	}
	if entry.IsListed() {
		return InferCountry(entry.Category, entry.Ticker)
	}
	return ""
}
