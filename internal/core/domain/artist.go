package domain

// Artist is a catalog artist with the genres the catalog attributes to it.
type Artist struct {
	ID         string
	Name       string
	Genres     []string
	Popularity int
}
