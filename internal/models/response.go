package models

type UploadResponse struct {
	URL string `json:"url"`
}

type CreateImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	RecordID string `json:"recordId"`
	Message  string `json:"message"`
}

type CreateVideoResponse struct {
	Success  bool   `json:"success"`
	VideoID  string `json:"videoId"`
	RecordID string `json:"recordId,omitempty"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

type CheckVideoResponse struct {
	Success   bool           `json:"success"`
	Status    string         `json:"status"`
	VideoURL  *string        `json:"videoUrl"`
	Progress  *float64       `json:"progress,omitempty"`
	VideoData map[string]any `json:"videoData"`
}

type ArchiveVideoResponse struct {
	Success     bool   `json:"success"`
	SupabaseURL string `json:"supabaseUrl"`
	OriginalURL string `json:"originalUrl"`
	Message     string `json:"message"`
}

type ImagesResponse struct {
	Success bool       `json:"success"`
	Images  []ImageJob `json:"images"`
}

type VideosResponse struct {
	Success bool       `json:"success"`
	Videos  []VideoJob `json:"videos"`
}

type PricingTier struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Photos      int    `json:"photos"`
	PriceCents  int    `json:"priceCents"`
	Price       string `json:"price"`
	SavingsNote string `json:"savingsNote,omitempty"`
}

type PricingResponse struct {
	Success bool          `json:"success"`
	Tiers   []PricingTier `json:"tiers"`
}

type ConfirmPlanResponse struct {
	Success bool        `json:"success"`
	Tier    PricingTier `json:"tier"`
	Charged bool        `json:"charged"`
	Message string      `json:"message"`
}

type ClientConfigResponse struct {
	PollIntervalSeconds int `json:"pollIntervalSeconds"`
	MaxPollAttempts     int `json:"maxPollAttempts"`
	MaxImages           int `json:"maxImages"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
