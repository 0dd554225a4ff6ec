package httpapi

type MaterialCardDTO struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Category              string   `json:"category"`
	ContentType           string   `json:"contentType"`
	FileType              string   `json:"fileType"`
	AuthorName            string   `json:"authorName"`
	FileURL               *string  `json:"fileUrl"`
	ThumbnailURL          *string  `json:"thumbnailUrl"`
	PriceCents            int64    `json:"priceCents"`
	Currency              string   `json:"currency"`
	IsPremium             bool     `json:"isPremium"`
	IsFeatured            bool     `json:"isFeatured"`
	Tags                  []string `json:"tags"`
	SoftwareCompatibility []string `json:"softwareCompatibility"`
	DownloadsCount        int64    `json:"downloadsCount"`
	Variant               string   `json:"variant"`
	Status                string   `json:"status"`
	CreatedAt             string   `json:"createdAt"`
}

type MaterialDetailDTO struct {
	MaterialCardDTO
	Introduction  *string `json:"introduction,omitempty"`
	HTMLCode      *string `json:"htmlCode,omitempty"`
	CSSCode       *string `json:"cssCode,omitempty"`
	JSCode        *string `json:"jsCode,omitempty"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

type MaterialListResponse struct {
	Items     []MaterialCardDTO `json:"items"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	PageCount int               `json:"pageCount"`
	Size      int               `json:"size"`
}

type MaterialUpsertRequest struct {
	Title                 string   `json:"title" validate:"required,min=1,max=200"`
	Description           string   `json:"description" validate:"max=5000"`
	Category              string   `json:"category" validate:"required,min=1,max=100"`
	ContentType           string   `json:"contentType" validate:"max=100"`
	FileType              string   `json:"fileType" validate:"max=50"`
	FileAssetID           *string  `json:"fileAssetId"`
	ThumbnailAssetID      *string  `json:"thumbnailAssetId"`
	PriceCents            int64    `json:"priceCents" validate:"min=0"`
	Currency              string   `json:"currency" validate:"omitempty,len=3"`
	IsPremium             bool     `json:"isPremium"`
	IsFeatured            bool     `json:"isFeatured"`
	Tags                  []string `json:"tags" validate:"max=20"`
	SoftwareCompatibility []string `json:"softwareCompatibility" validate:"max=20"`
	HTMLCode              *string  `json:"htmlCode"`
	CSSCode               *string  `json:"cssCode"`
	JSCode                *string  `json:"jsCode"`
	Introduction          *string  `json:"introduction"`
	Status                string   `json:"status" validate:"omitempty,oneof=draft published"`
}
