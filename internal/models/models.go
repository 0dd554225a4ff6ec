package models

import "time"

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Status       string     `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	LastSeenAt   *time.Time `db:"last_seen_at"`
}

type UserProfile struct {
	UserID      string  `db:"user_id"`
	DisplayName *string `db:"display_name"`
	Bio         *string `db:"bio"`
	AvatarMedia *string `db:"avatar_media_id"`
}

type UserPreferences struct {
	UserID    string    `db:"user_id"`
	Theme     string    `db:"theme"`
	DarkMode  bool      `db:"dark_mode"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Role struct {
	ID   string `db:"id"`
	Code string `db:"code"`
}

type MediaAsset struct {
	ID          string    `db:"id"`
	OwnerUserID *string   `db:"owner_user_id"`
	Bucket      string    `db:"bucket"`
	StorageKey  string    `db:"storage_key"`
	Filename    *string   `db:"filename"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	Sha256      *string   `db:"sha256"`
	CreatedAt   time.Time `db:"created_at"`
}

type Material struct {
	ID                    string    `db:"id"`
	Title                 string    `db:"title"`
	Description           string    `db:"description"`
	Category              string    `db:"category"`
	ContentType           string    `db:"content_type"`
	FileType              string    `db:"file_type"`
	AuthorID              string    `db:"author_id"`
	FileMediaID           *string   `db:"file_media_id"`
	ThumbnailMediaID      *string   `db:"thumbnail_media_id"`
	PriceCents            int64     `db:"price_cents"`
	Currency              string    `db:"currency"`
	IsPremium             bool      `db:"is_premium"`
	IsFeatured            bool      `db:"is_featured"`
	Tags                  []byte    `db:"tags"`
	SoftwareCompatibility []byte    `db:"software_compatibility"`
	DownloadsCount        int64     `db:"downloads_count"`
	HTMLCode              *string   `db:"html_code"`
	CSSCode               *string   `db:"css_code"`
	JSCode                *string   `db:"js_code"`
	Introduction          *string   `db:"introduction"`
	Status                string    `db:"status"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

type ImageCategory struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Color       string    `db:"color"`
	StyleConfig []byte    `db:"style_config"`
	CreatedAt   time.Time `db:"created_at"`
}

type GalleryImage struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Prompt       *string   `db:"prompt"`
	ImageMediaID *string   `db:"image_media_id"`
	IsFeatured   bool      `db:"is_featured"`
	Status       string    `db:"status"`
	CategoryID   *string   `db:"category_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type Interaction struct {
	ID              string    `db:"id"`
	MaterialID      string    `db:"material_id"`
	InteractionType string    `db:"interaction_type"`
	CommentText     *string   `db:"comment_text"`
	RatingValue     *int      `db:"rating_value"`
	UserID          *string   `db:"user_id"`
	UserIP          string    `db:"user_ip"`
	CreatedAt       time.Time `db:"created_at"`
}

type Purchase struct {
	ID                string    `db:"id"`
	MaterialID        string    `db:"material_id"`
	UserID            *string   `db:"user_id"`
	UserIP            string    `db:"user_ip"`
	RazorpayOrderID   string    `db:"razorpay_order_id"`
	RazorpayPaymentID *string   `db:"razorpay_payment_id"`
	AmountCents       int64     `db:"amount_cents"`
	Currency          string    `db:"currency"`
	Status            string    `db:"status"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type FeedbackMessage struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

type SiteVisit struct {
	ID        string    `db:"id"`
	IPAddress *string   `db:"ip_address"`
	UserAgent *string   `db:"user_agent"`
	Path      *string   `db:"path"`
	Referrer  *string   `db:"referrer"`
	CreatedAt time.Time `db:"created_at"`
}

type ServerMetricSample struct {
	ID                string    `db:"id"`
	CapturedAt        time.Time `db:"captured_at"`
	HeapUsedBytes     int64     `db:"heap_used_bytes"`
	HeapMaxBytes      int64     `db:"heap_max_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load"`
}
