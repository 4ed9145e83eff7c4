package dto

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/islamipic/api/internal/domain"
)

// UploadImageForm is parsed from multipart/form-data; tags arrive as a
// comma-separated field.
type UploadImageForm struct {
	Title       string `validate:"required,min=2,max=200"`
	Description string `validate:"max=2000"`
	Category    string `validate:"required,category"`
	Tags        []string

	File   multipart.File
	Header *multipart.FileHeader
}

func (f *UploadImageForm) Validate() error {
	if err := check(f); err != nil {
		return err
	}
	if f.File == nil || f.Header == nil {
		return domain.ErrMissingField("image")
	}
	// Only image payloads reach storage; everything else is rejected here.
	ct := f.Header.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return domain.ErrInvalidField("image", "content type must be image/*")
	}
	return nil
}

type UpdateImageRequest struct {
	Title       string   `json:"title" validate:"required,min=2,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Category    string   `json:"category" validate:"required,category"`
	Tags        []string `json:"tags" validate:"max=20"`
}

func (r *UpdateImageRequest) Validate() error { return check(r) }

// SplitTags turns a "a, b ,c" form field into a tag slice.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type ImageResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Likes       int       `json:"likes"`
	Liked       bool      `json:"liked"`
	Shares      int64     `json:"shares"`
	Views       int64     `json:"views"`
	Downloads   int64     `json:"downloads"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromImage shapes the public view; viewerID marks the Liked flag and may be
// empty for anonymous requests.
func FromImage(img domain.Image, viewerID string) ImageResponse {
	tags := img.Tags
	if tags == nil {
		tags = []string{}
	}
	return ImageResponse{
		ID:          img.ID,
		Title:       img.Title,
		Slug:        img.Slug,
		Description: img.Description,
		URL:         img.URL,
		Category:    img.Category,
		Tags:        tags,
		Likes:       len(img.Likes),
		Liked:       viewerID != "" && img.LikedBy(viewerID),
		Shares:      img.Shares,
		Views:       img.Views,
		Downloads:   img.Downloads,
		CreatedAt:   img.CreatedAt,
		UpdatedAt:   img.UpdatedAt,
	}
}

func FromImages(imgs []domain.Image, viewerID string) []ImageResponse {
	out := make([]ImageResponse, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, FromImage(img, viewerID))
	}
	return out
}

type DownloadResponse struct {
	URL string `json:"url"`
}

type CounterResponse struct {
	Count int64 `json:"count"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
