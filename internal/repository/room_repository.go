package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository/base"
)

type RoomRepository struct {
	*base.Repository
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{Repository: base.NewRepository(pool)}
}

// List получает все зарегистрированные залы
func (r *RoomRepository) List(ctx context.Context) ([]*model.Room, error) {
	query := `SELECT id, name FROM rooms ORDER BY name ASC`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Name); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, nil
}
