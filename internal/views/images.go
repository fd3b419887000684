package views

import (
	"time"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/models"
)

type Image struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
}

func RenderImage(img models.Image) Image {
	return Image{
		ID:        img.ID,
		Name:      img.Name,
		Size:      img.Size,
		URL:       img.URL,
		Key:       img.Key,
		CreatedAt: img.CreatedAt,
	}
}

func RenderImages(images []models.Image) []Image {
	return renderMany(images, RenderImage)
}
