package postgres

import (
	"database/sql"

	"driveshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.VehicleRepository
	repository.ReservationRepository
	repository.VoucherRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		VehicleRepository:     NewVehicleRepository(db),
		ReservationRepository: NewReservationRepository(db),
		VoucherRepository:     NewVoucherRepository(db),
	}
}
