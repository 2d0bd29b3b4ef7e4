package catalog

import (
	"encoding/json"

	"github.com/locol-hq/locol/internal/models"
)

// Column names in the hosted base. The staging and events tables share the
// Event/When/Link columns; the rest are table-specific.
const (
	colEvent            = "Event"
	colWhen             = "When"
	colLink             = "Link"
	colLinks            = "Links"
	colPlaylist         = "Playlist"
	colSource           = "Source"
	colStatus           = "Status"
	colPublishedEventID = "Published Event ID"
	colSubmittedBy      = "Submitted_By"
	colVerification     = "Playlist_Verification_Status"
	colHandle           = "Handle"
	colPlaylistName     = "Playlist Name"
	colPlaylistOwner    = "Playlist Owner"
)

func fieldString(f Fields, key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

// fieldStrings reads a multi-value column. The store returns linked-record
// columns as arrays, but older rows sometimes hold a bare string.
func fieldStrings(f Fields, key string) []string {
	switch v := f[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// fieldFirst reads a column that may be single- or multi-valued and
// returns its first entry.
func fieldFirst(f Fields, key string) string {
	values := fieldStrings(f, key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// linksToJSON serializes provenance links into the Links text column.
func linksToJSON(links []models.SourceLink) string {
	if len(links) == 0 {
		return ""
	}
	raw, err := json.Marshal(links)
	if err != nil {
		return ""
	}
	return string(raw)
}

// linksFromJSON parses the Links text column, tolerating rows written
// before the column existed.
func linksFromJSON(raw string) []models.SourceLink {
	if raw == "" {
		return nil
	}
	var links []models.SourceLink
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil
	}
	return links
}
