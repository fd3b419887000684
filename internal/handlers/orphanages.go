package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/middleware"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/service"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/views"
)

type createOrphanageRequest struct {
	Name           string `json:"name" validate:"required"`
	Latitude       string `json:"latitude" validate:"required,numeric"`
	Longitude      string `json:"longitude" validate:"required,numeric"`
	About          string `json:"about" validate:"required,max=300"`
	Instructions   string `json:"instructions" validate:"required"`
	OpeningHours   string `json:"opening_hours" validate:"required"`
	OpenOnWeekends string `json:"open_on_weekends" validate:"required,boolean"`
}

type updateOrphanageRequest struct {
	ID        string `json:"id" validate:"required,number"`
	Latitude  string `json:"latitude" validate:"omitempty,numeric"`
	Longitude string `json:"longitude" validate:"omitempty,numeric"`
}

func (h HandlerSet) ShowOrphanage(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		fail(c, err)
		return
	}

	orphanage, err := h.orphanages.Show(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, views.RenderOrphanage(orphanage))
}

func (h HandlerSet) ListOrphanages(c *gin.Context) {
	orphanages, err := h.orphanages.ListAccepted(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, views.RenderOrphanages(orphanages))
}

func (h HandlerSet) ListPendingOrphanages(c *gin.Context) {
	orphanages, err := h.orphanages.ListPending(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, views.RenderOrphanages(orphanages))
}

func (h HandlerSet) AcceptOrphanage(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.orphanages.Accept(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "message": "Orphanage Accepted"})
}

func (h HandlerSet) CreateOrphanage(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		fail(c, err)
		return
	}
	req := createOrphanageRequest{
		Name:           b.text("name"),
		Latitude:       b.text("latitude"),
		Longitude:      b.text("longitude"),
		About:          b.text("about"),
		Instructions:   b.text("instructions"),
		OpeningHours:   b.text("opening_hours"),
		OpenOnWeekends: b.text("open_on_weekends"),
	}
	if err := h.check(req); err != nil {
		fail(c, err)
		return
	}

	// numeric validation guarantees these parse.
	lat, _ := strconv.ParseFloat(req.Latitude, 64)
	lng, _ := strconv.ParseFloat(req.Longitude, 64)

	orphanage, err := h.orphanages.Create(c.Request.Context(), service.CreateOrphanageInput{
		Name:           req.Name,
		Latitude:       lat,
		Longitude:      lng,
		About:          req.About,
		Instructions:   req.Instructions,
		OpeningHours:   req.OpeningHours,
		OpenOnWeekends: b.stringTrue("open_on_weekends"),
	}, middleware.StoredFiles(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, views.RenderOrphanage(orphanage))
}

// UpdateOrphanage applies a partial update. open_on_weekends is true only
// for the string "true" and accept only for the JSON boolean true; both
// are written on every call. Create treats open_on_weekends the same way.
func (h HandlerSet) UpdateOrphanage(c *gin.Context) {
	b, err := readBody(c)
	if err != nil {
		fail(c, err)
		return
	}
	req := updateOrphanageRequest{
		ID:        b.text("id"),
		Latitude:  b.text("latitude"),
		Longitude: b.text("longitude"),
	}
	if err := h.check(req); err != nil {
		fail(c, err)
		return
	}
	id, err := parseID(req.ID)
	if err != nil {
		fail(c, err)
		return
	}
	removeIDs, err := parseIDs(b.list("id_images_remove"))
	if err != nil {
		fail(c, err)
		return
	}

	input := service.UpdateOrphanageInput{
		ID:             id,
		Name:           optionalText(b, "name"),
		About:          optionalText(b, "about"),
		Instructions:   optionalText(b, "instructions"),
		OpeningHours:   optionalText(b, "opening_hours"),
		Latitude:       optionalFloat(req.Latitude),
		Longitude:      optionalFloat(req.Longitude),
		OpenOnWeekends: b.stringTrue("open_on_weekends"),
		Accept:         b.jsonTrue("accept"),
		RemoveImageIDs: removeIDs,
	}
	if err := h.orphanages.Update(c.Request.Context(), input, middleware.StoredFiles(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) DeleteOrphanage(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.orphanages.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Orphanage deleted"})
}

func optionalText(b body, key string) *string {
	if !b.has(key) {
		return nil
	}
	s := b.text(key)
	return &s
}

// optionalFloat treats an empty value as absent.
func optionalFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
