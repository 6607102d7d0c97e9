package domain

// ConnectionSettings locate the remote spreadsheet and hold the
// credentials used to reach it.
type ConnectionSettings struct {
	SheetID           string
	GoogleClientID    string
	GoogleAccessToken string
}

func (s ConnectionSettings) HasToken() bool {
	return s.GoogleAccessToken != ""
}

type (
	// Tab is one sheet of the spreadsheet. StableID survives renames.
	Tab struct {
		StableID int64
		Title    string
	}

	TabTitles struct {
		Catalog string
		Roster  string
		Journal string
	}
)
