package views

import "github.com/Olliveer/happy-2.0-backend-deploy/internal/models"

type Orphanage struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	About          string  `json:"about"`
	Instructions   string  `json:"instructions"`
	OpeningHours   string  `json:"opening_hours"`
	OpenOnWeekends bool    `json:"open_on_weekends"`
	Accept         bool    `json:"accept"`
	Images         []Image `json:"images"`
}

func RenderOrphanage(o models.Orphanage) Orphanage {
	return Orphanage{
		ID:             o.ID,
		Name:           o.Name,
		Latitude:       o.Latitude,
		Longitude:      o.Longitude,
		About:          o.About,
		Instructions:   o.Instructions,
		OpeningHours:   o.OpeningHours,
		OpenOnWeekends: o.OpenOnWeekends,
		Accept:         o.Accept,
		Images:         RenderImages(o.Images),
	}
}

func RenderOrphanages(orphanages []models.Orphanage) []Orphanage {
	return renderMany(orphanages, RenderOrphanage)
}
