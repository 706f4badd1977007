package dto

// TotalPages is the number of pages of size needed to hold total items.
func TotalPages(total, size int64) int64 {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

type IDResponse struct {
	ID uint `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
