package dto

// ItemListQuery narrows the stock item list.
type ItemListQuery struct {
	Category   string `form:"category"`
	OnlyActive bool   `form:"onlyActive"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// LocationListQuery narrows the location list.
type LocationListQuery struct {
	Kind string `form:"kind"`
}
