package service

import (
	"context"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo}
}

func (s *vehicleService) AddVehicle(ctx context.Context, v *domain.Vehicle) error {
	if v.Name == "" {
		return domain.NewError(domain.ErrInvalidInput, "vehicle name is required")
	}
	if v.DailyRateCents <= 0 {
		return domain.NewError(domain.ErrInvalidResource, "daily rate must be positive")
	}
	if v.Status == "" {
		v.Status = domain.VehicleStatusAvailable
	}
	return s.vehicleRepo.Create(ctx, v)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, userID int32, v *domain.Vehicle) error {
	existing, err := s.vehicleRepo.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != userID {
		return domain.NewError(domain.ErrUnauthorized, "vehicle belongs to another owner")
	}
	if v.DailyRateCents <= 0 {
		return domain.NewError(domain.ErrInvalidResource, "daily rate must be positive")
	}
	v.OwnerID = existing.OwnerID
	return s.vehicleRepo.Update(ctx, v)
}

func (s *vehicleService) ListMyVehicles(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.vehicleRepo.ListByOwner(ctx, ownerID, page, pageSize)
}
