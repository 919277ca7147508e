package domain

// PlaylistRef is a reference to a playlist in the user's remote library.
// It carries just enough to match identities and address the playlist in
// subsequent library calls.
type PlaylistRef struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
}
