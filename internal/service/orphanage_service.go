package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/models"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/repository"
)

const (
	MsgOrphanageNotFound = "Orphanage not found"
	MsgOrphanageExists   = "Orphanage already exists"
)

type OrphanageService struct {
	orphanages *repository.OrphanageRepository
	images     *repository.ImageRepository
	imageSvc   *ImageService
	log        zerolog.Logger
}

func NewOrphanageService(
	orphanages *repository.OrphanageRepository,
	images *repository.ImageRepository,
	imageSvc *ImageService,
	log zerolog.Logger,
) *OrphanageService {
	return &OrphanageService{
		orphanages: orphanages,
		images:     images,
		imageSvc:   imageSvc,
		log:        log,
	}
}

type CreateOrphanageInput struct {
	Name           string
	Latitude       float64
	Longitude      float64
	About          string
	Instructions   string
	OpeningHours   string
	OpenOnWeekends bool
}

// UpdateOrphanageInput carries a partial update. Nil fields are left as
// stored; OpenOnWeekends and Accept are always written.
type UpdateOrphanageInput struct {
	ID             uint
	Name           *string
	Latitude       *float64
	Longitude      *float64
	About          *string
	Instructions   *string
	OpeningHours   *string
	OpenOnWeekends bool
	Accept         bool
	RemoveImageIDs []uint
}

func (s *OrphanageService) Show(ctx context.Context, id uint) (models.Orphanage, error) {
	orphanage, err := s.orphanages.GetByID(ctx, id)
	if errors.Is(err, repository.ErrOrphanageNotFound) {
		return models.Orphanage{}, apperror.NotFound(MsgOrphanageNotFound)
	}
	return orphanage, err
}

func (s *OrphanageService) ListAccepted(ctx context.Context) ([]models.Orphanage, error) {
	return s.orphanages.ListByAccept(ctx, true)
}

func (s *OrphanageService) ListPending(ctx context.Context) ([]models.Orphanage, error) {
	return s.orphanages.ListByAccept(ctx, false)
}

func (s *OrphanageService) Accept(ctx context.Context, id uint) error {
	err := s.orphanages.SetAccept(ctx, id, true)
	if errors.Is(err, repository.ErrOrphanageNotFound) {
		return apperror.NotFound(MsgOrphanageNotFound)
	}
	if err == nil {
		s.log.Info().Uint("orphanage_id", id).Msg("orphanage accepted")
	}
	return err
}

// Create stores a new orphanage awaiting approval together with images for
// the uploaded files.
func (s *OrphanageService) Create(ctx context.Context, input CreateOrphanageInput, files []StoredFile) (models.Orphanage, error) {
	exists, err := s.orphanages.ExistsByName(ctx, input.Name)
	if err != nil {
		return models.Orphanage{}, err
	}
	if exists {
		return models.Orphanage{}, apperror.New(MsgOrphanageExists)
	}

	orphanage := models.Orphanage{
		Name:           input.Name,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		About:          input.About,
		Instructions:   input.Instructions,
		OpeningHours:   input.OpeningHours,
		OpenOnWeekends: input.OpenOnWeekends,
		Accept:         false,
		Images:         s.imageSvc.Build(files),
	}
	if err := s.orphanages.Create(ctx, &orphanage); err != nil {
		return models.Orphanage{}, fmt.Errorf("create orphanage: %w", err)
	}

	s.log.Info().Uint("orphanage_id", orphanage.ID).Int("images", len(orphanage.Images)).Msg("orphanage created")
	return orphanage, nil
}

// Update removes the listed images of the orphanage, attaches the new
// files and writes the scalar fields.
func (s *OrphanageService) Update(ctx context.Context, input UpdateOrphanageInput, files []StoredFile) error {
	if _, err := s.Show(ctx, input.ID); err != nil {
		return err
	}

	if len(input.RemoveImageIDs) > 0 {
		doomed, err := s.images.ListByIDs(ctx, input.ID, input.RemoveImageIDs)
		if err != nil {
			return err
		}
		if err := s.imageSvc.RemoveAll(ctx, doomed); err != nil {
			return err
		}
	}

	if len(files) > 0 {
		if _, err := s.imageSvc.Attach(ctx, input.ID, files); err != nil {
			return err
		}
	}

	err := s.orphanages.Update(ctx, input.ID, input.values())
	if errors.Is(err, repository.ErrOrphanageNotFound) {
		return apperror.NotFound(MsgOrphanageNotFound)
	}
	return err
}

func (in UpdateOrphanageInput) values() map[string]any {
	values := map[string]any{
		"open_on_weekends": in.OpenOnWeekends,
		"accept":           in.Accept,
	}
	if in.Name != nil {
		values["name"] = *in.Name
	}
	if in.Latitude != nil {
		values["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		values["longitude"] = *in.Longitude
	}
	if in.About != nil {
		values["about"] = *in.About
	}
	if in.Instructions != nil {
		values["instructions"] = *in.Instructions
	}
	if in.OpeningHours != nil {
		values["opening_hours"] = *in.OpeningHours
	}
	return values
}

// Delete removes every image (blob first) and then the orphanage.
func (s *OrphanageService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Show(ctx, id); err != nil {
		return err
	}

	images, err := s.images.ListByOrphanage(ctx, id)
	if err != nil {
		return err
	}
	if err := s.imageSvc.RemoveAll(ctx, images); err != nil {
		return err
	}

	err = s.orphanages.Delete(ctx, id)
	if errors.Is(err, repository.ErrOrphanageNotFound) {
		return apperror.NotFound(MsgOrphanageNotFound)
	}
	if err == nil {
		s.log.Info().Uint("orphanage_id", id).Int("images", len(images)).Msg("orphanage deleted")
	}
	return err
}
