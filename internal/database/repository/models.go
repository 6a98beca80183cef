package repository

// Item represents an items row. ID is assigned by sqlite on insert and never
// changes afterwards.
type Item struct {
	ID   int64
	Name string
}
