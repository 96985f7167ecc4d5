package models

// Period is a named time-of-day bucket. Name encodes the range as "HH:MM-HH:MM".
type Period struct {
	ID        string `db:"id" json:"id" yaml:"id"`
	Name      string `db:"name" json:"name" yaml:"name"`
	SortOrder int    `db:"sort_order" json:"sort_order" yaml:"sort_order"`
}
