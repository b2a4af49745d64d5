package market

import (
	"regexp"
	"strings"

	"github.com/arnet007/StockSentimentPro/internal/domain"
)

// tickerRe matches Yahoo-style symbols: an optional index caret, then
// letters, digits, dots, dashes, ampersands or '=' (currency pairs).
var tickerRe = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.&=-]{0,19}$`)

// FormatTicker normalises a raw ticker for the given market. Symbols that
// already carry an exchange suffix (.NS, .BO) or an index caret are kept as
// is; otherwise NSE symbols get ".NS" and BSE symbols ".BO".
func FormatTicker(raw string, m Market) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return "", domain.InvalidInputf("ticker is empty")
	}
	if !tickerRe.MatchString(t) {
		return "", domain.InvalidInputf("ticker %q is malformed", raw)
	}

	if strings.HasSuffix(t, ".NS") || strings.HasSuffix(t, ".BO") || strings.HasPrefix(t, "^") {
		return t, nil
	}

	switch m {
	case NSE:
		return t + ".NS", nil
	case BSE:
		return t + ".BO", nil
	}
	return t, nil
}

// BaseSymbol strips exchange suffixes and the index caret, e.g. for query
// text on news search endpoints.
func BaseSymbol(ticker string) string {
	t := strings.TrimPrefix(ticker, "^")
	t = strings.TrimSuffix(t, ".NS")
	t = strings.TrimSuffix(t, ".BO")
	return t
}
