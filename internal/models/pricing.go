package models

// TextRequest is the body of a text search.
type TextRequest struct {
	Q string `json:"q"`
}

type ProductInfo struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// TextResponse is returned by both the text and the image search endpoints.
type TextResponse struct {
	AnswerText  string        `json:"answer_text"`
	ProductInfo []ProductInfo `json:"product_info"`
	MainURL     string        `json:"main_url"`
}

// DefineImageResponse carries the backend's description of a photo.
type DefineImageResponse struct {
	AnswerText string `json:"answer_text"`
}
