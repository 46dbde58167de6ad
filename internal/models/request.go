package models

type CreateImageRequest struct {
	ImageURLs []string `json:"imageUrls"`
	Prompt    string   `json:"prompt,omitempty"`
}

type CreateVideoRequest struct {
	Image1URL string `json:"image1Url"`
	Image2URL string `json:"image2Url"`
	Prompt    string `json:"prompt,omitempty"`
}

type CheckVideoRequest struct {
	VideoID  string `json:"videoId"`
	RecordID string `json:"recordId,omitempty"`
}

type ArchiveVideoRequest struct {
	VideoURL string `json:"videoUrl"`
	VideoID  string `json:"videoId,omitempty"`
	RecordID string `json:"recordId,omitempty"`
}

type ConfirmPlanRequest struct {
	Tier string `json:"tier"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
