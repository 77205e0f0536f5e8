package ai

// Intents defines the coarse query intent labels the enhancer may assign.
var Intents = []string{
	"find_opinions",
	"find_news",
	"find_tutorials",
	"find_discussions",
	"find_announcements",
	"general_search",
}

// ContentTypeOther is the fallback label when the annotator returns a
// post kind outside ContentTypes.
const ContentTypeOther = "other"

// ContentTypes defines the coarse post kinds the annotator may assign.
var ContentTypes = []string{
	"opinion",
	"news",
	"tutorial",
	"question",
	"announcement",
	"discussion",
	"humor",
	ContentTypeOther,
}
