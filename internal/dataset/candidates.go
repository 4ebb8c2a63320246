package dataset

// Ranked column-name candidates, most-preferred first. The source sheets mix
// French and English headers, so both spellings are listed.
var (
	dateCandidates  = []string{"date", "jour", "datetime"}
	closeCandidates = []string{"close", "cours", "price", "close_price"}

	variationCandidates = []string{"variation_pct", "variation", "variation_journaliere", "var_pct", "var"}

	mm50Candidates  = []string{"mm50", "ma50", "sma50"}
	mm200Candidates = []string{"mm200", "ma200", "sma200"}

	rsiShortCandidates  = []string{"court", "rsi_court", "rsi_short", "rsi_7", "rsi7"}
	rsiMediumCandidates = []string{"moyen", "rsi_moyen", "rsi_14", "rsi14"}
	rsiLongCandidates   = []string{"long_terme", "long", "rsi_long", "rsi_28", "rsi28"}
)
