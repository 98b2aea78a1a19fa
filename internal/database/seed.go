package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/tickettrade/resale-market/internal/model"
	"github.com/tickettrade/resale-market/internal/repository"
)

// Seed inserts sample users, concerts and listings for local development.
// It is a no-op when the concerts table already has rows, so restarting
// a dev server never duplicates fixtures.
func Seed(ctx context.Context, db *sql.DB, bcryptCost int) error {
	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM concerts").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	users := repository.NewUserRepo(db)
	concerts := repository.NewConcertRepo(db)
	tickets := repository.NewTicketRepo(db)

	seller1, err := users.Create(ctx, "user1@example.com", "password1", "홍길동", bcryptCost)
	if err != nil {
		return err
	}
	seller2, err := users.Create(ctx, "user2@example.com", "password2", "김철수", bcryptCost)
	if err != nil {
		return err
	}

	concert1, err := concerts.Create(ctx, &model.Concert{
		Title:       "2026 여름 페스티벌",
		Artist:      "다양한 아티스트",
		Date:        "2026-07-15",
		Time:        "18:00",
		Venue:       "올림픽 공원",
		Address:     "서울특별시 송파구 올림픽로 424",
		Description: "올 여름 최고의 페스티벌! 국내 최고 아티스트들이 총출동합니다.",
		Category:    "페스티벌",
		Price:       model.PriceMap{"vip": 150000, "r": 120000, "s": 90000},
		Status:      model.ConcertStatusUpcoming,
	})
	if err != nil {
		return err
	}
	concert2, err := concerts.Create(ctx, &model.Concert{
		Title:       "클래식 오케스트라 공연",
		Artist:      "서울 필하모닉",
		Date:        "2026-08-20",
		Time:        "19:30",
		Venue:       "예술의전당",
		Address:     "서울특별시 서초구 남부순환로 2406",
		Description: "베토벤, 모차르트 등 클래식 명곡을 한자리에서 감상하세요.",
		Category:    "클래식",
		Price:       model.PriceMap{"vip": 100000, "r": 80000, "s": 60000, "a": 40000},
		Status:      model.ConcertStatusUpcoming,
	})
	if err != nil {
		return err
	}

	consecutive := true
	if _, err := tickets.Create(ctx, &model.Ticket{
		ConcertID:          concert1.ID,
		SellerID:           seller1,
		Title:              "2026 여름 페스티벌 VIP 티켓",
		Price:              140000,
		OriginalPrice:      150000,
		Quantity:           2,
		Grade:              "VIP",
		Section:            "A",
		Row:                "1",
		SeatNumber:         "15-16",
		IsConsecutiveSeats: &consecutive,
		Description:        "VIP 구역 연석 2장입니다. 급하게 팝니다.",
	}); err != nil {
		return err
	}
	if _, err := tickets.Create(ctx, &model.Ticket{
		ConcertID:     concert2.ID,
		SellerID:      seller2,
		Title:         "클래식 오케스트라 R석 티켓",
		Price:         75000,
		OriginalPrice: 80000,
		Quantity:      1,
		Grade:         "R",
		Section:       "B",
		Row:           "5",
		SeatNumber:    "12",
		Description:   "일정이 겹쳐서 판매합니다.",
	}); err != nil {
		return err
	}

	log.Printf("seeded fixtures: 2 users, 2 concerts, 2 tickets")
	return nil
}
