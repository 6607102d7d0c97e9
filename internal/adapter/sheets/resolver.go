package sheets

import (
	"strings"

	"github.com/niksmo/qc-logbook/internal/core/domain"
)

const (
	// CatalogTabID is the sheet id Google assigns to the first tab.
	CatalogTabID int64 = 0
	RosterTabID  int64 = 1

	DefaultCatalogTitle = "Products"
	DefaultRosterTitle  = "Inspectors"
	DefaultJournalTitle = "Log"
)

func DefaultTabTitles() domain.TabTitles {
	return domain.TabTitles{
		Catalog: DefaultCatalogTitle,
		Roster:  DefaultRosterTitle,
		Journal: DefaultJournalTitle,
	}
}

// ResolveTabs picks the catalog, roster and journal tabs.
//
// The catalog is matched by [CatalogTabID], then the first tab. The roster is
// matched by [RosterTabID] only. The journal is the tab titled "Log" in any
// case. Anything unmatched keeps its default title.
func ResolveTabs(tabs []domain.Tab) domain.TabTitles {
	titles := DefaultTabTitles()

	if len(tabs) != 0 {
		titles.Catalog = tabs[0].Title
	}

	for _, tab := range tabs {
		if tab.StableID == CatalogTabID {
			titles.Catalog = tab.Title
			break
		}
	}

	for _, tab := range tabs {
		if tab.StableID == RosterTabID {
			titles.Roster = tab.Title
			break
		}
	}

	for _, tab := range tabs {
		if strings.EqualFold(tab.Title, DefaultJournalTitle) {
			titles.Journal = tab.Title
			break
		}
	}

	return titles
}
