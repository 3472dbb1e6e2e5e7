package bot

// Conversation states for the preference setup flow.
type state int

const (
	stateIdle state = iota
	stateTopic
	stateLocation
	stateLanguage
	stateAutomatic
)

// Callback query payloads.
const (
	callbackUseSaved    = "use_saved"
	callbackUpdatePrefs = "update_prefs"
	callbackToggleAuto  = "toggle_auto"
)

const skipLocationReply = "Skip (use US)"

// locations maps region codes to display names offered in the keyboard.
var locations = map[string]string{
	"US": "United States",
	"GB": "United Kingdom",
	"DE": "Germany",
	"FR": "France",
	"IT": "Italy",
	"ES": "Spain",
	"CA": "Canada",
	"AU": "Australia",
	"IN": "India",
	"JP": "Japan",
}

// languages maps language codes to display names offered in the keyboard.
var languages = map[string]string{
	"en": "English",
	"de": "German",
	"fr": "French",
	"it": "Italian",
	"es": "Spanish",
	"ja": "Japanese",
	"hi": "Hindi",
}

// locationOrder and languageOrder fix the keyboard layout; map iteration
// order would shuffle buttons between runs.
var locationOrder = []string{"US", "GB", "DE", "FR", "IT", "ES", "CA", "AU", "IN", "JP"}

var languageOrder = []string{"en", "de", "fr", "it", "es", "ja", "hi"}

// User-facing texts.
const (
	textWelcome = "👋 Welcome to News Clustering Bot!\n\n" +
		"I'll help you find and cluster similar news articles.\n\n" +
		"What topic would you like to search for?\n" +
		"(e.g., 'artificial intelligence', 'climate change', 'sports')\n\n" +
		"Send /cancel to stop."
	textAskTopic = "What topic would you like to search for?\n" +
		"(e.g., 'artificial intelligence', 'climate change', 'sports')\n\n" +
		"Send /cancel to stop."
	textAskLocation  = "Now, select your preferred location:"
	textAskLanguage  = "Select your preferred language:"
	textAskAutomatic = "Would you like automatic daily updates? (yes/no)"
	textCanceled     = "Canceled. Send /start to begin again."
	textNoPrefs      = "No saved preferences yet. Send /start to set them up."
	textFetching     = "🔄 Fetching news with your saved preferences..."
	textAnalyzing    = "✅ Fetched articles. Analyzing..."
	textNoNews       = "❌ No news articles found for your query."
	textDone         = "✨ Done! Send /start to search again or /settings to manage preferences."
)
