package catalog

import (
	"context"
	"fmt"

	"github.com/locol-hq/locol/internal/models"
)

// PlaylistStore is the typed gateway to the Playlists table. The ingestion
// core only ever reads it, to resolve handles to record identifiers.
type PlaylistStore struct {
	client *Client
	table  string
}

// NewPlaylistStore constructs a playlist gateway for the given table.
func NewPlaylistStore(client *Client, table string) *PlaylistStore {
	return &PlaylistStore{client: client, table: table}
}

// ListAll retrieves every playlist, fully paginated.
func (s *PlaylistStore) ListAll(ctx context.Context) ([]models.Playlist, error) {
	records, err := s.client.ListAll(ctx, s.table, "")
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	playlists := make([]models.Playlist, 0, len(records))
	for _, r := range records {
		playlists = append(playlists, models.Playlist{
			ID:                 r.ID,
			Handle:             fieldString(r.Fields, colHandle),
			Name:               fieldString(r.Fields, colPlaylistName),
			OwnerIDs:           fieldStrings(r.Fields, colPlaylistOwner),
			VerificationStatus: fieldFirst(r.Fields, colVerification),
		})
	}
	return playlists, nil
}
