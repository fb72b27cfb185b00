package repository

// Page paginación por limit/offset. Limit 0 = sin límite.
type Page struct {
	Limit  int
	Offset int
}
