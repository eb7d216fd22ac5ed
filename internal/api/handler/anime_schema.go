package handler

// animeRequest is the body of create, batch and update requests.
type animeRequest struct {
	Name string `json:"name" validate:"required,notblank"`
}

// batchRequest wraps a JSON array so each element is validated.
type batchRequest struct {
	Items []animeRequest `json:"items" validate:"dive"`
}

// animeResponse mirrors domain.Anime on the wire.
type animeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// errorResponse documents the error envelope rendered by the central error handler.
type errorResponse struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
}
