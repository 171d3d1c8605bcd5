package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"event-booking/pkg/config"
	"event-booking/pkg/database"
	"event-booking/pkg/logger"
	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedUser mirrors the columns the auth service owns in the users table.
type seedUser struct {
	ID         string
	Email      string
	Password   string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (seedUser) TableName() string {
	return "users"
}

func main() {
	var password string
	flag.StringVar(&password, "password", "password123", "Password given to every seeded account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	defer database.Close(db)

	if err := seedDatabase(db, password, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, password string, log *logger.Logger) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	emails := []string{"alice@test.com", "bob@test.com", "charlie@test.com", "diana@test.com"}
	userIDs := make([]string, 0, len(emails))
	for _, email := range emails {
		var existing seedUser
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			log.Info("User %s already exists, skipping", email)
			userIDs = append(userIDs, existing.ID)
			continue
		}

		user := &seedUser{
			ID:         uuid.New().String(),
			Email:      email,
			Password:   string(hashedPassword),
			IsVerified: true,
		}
		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", email, err)
			continue
		}
		log.Info("Created user: %s", email)
		userIDs = append(userIDs, user.ID)
	}

	if len(userIDs) < 2 {
		return errors.New("need at least two users to seed events")
	}

	eventRepo := persistent.NewEventRepository(db)
	bookingRepo := persistent.NewBookingRepository(db)

	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7).Add(18 * time.Hour)
	for i, organizerID := range userIDs {
		for j := 0; j < 2; j++ {
			price := decimal.Zero
			if j == 1 {
				price = decimal.NewFromInt(int64(10 * (i + 1)))
			}

			event := &entity.Event{
				Title:       fmt.Sprintf("Meetup #%d", i*2+j+1),
				Description: "Seeded event for local development",
				Date:        start.AddDate(0, 0, i*3+j),
				Location:    "Community Hall",
				SeatPrice:   price,
				OrganizerID: organizerID,
			}
			if err := eventRepo.Create(event); err != nil {
				log.Error("Failed to create event %s: %v", event.Title, err)
				continue
			}
			log.Info("Created event: %s (price %s)", event.Title, event.SeatPrice.StringFixed(2))

			if !event.IsFree() {
				continue
			}

			// Everyone else books the free ones
			for _, attendeeID := range userIDs {
				if attendeeID == organizerID {
					continue
				}
				booking := &entity.Booking{EventID: event.ID, UserID: attendeeID}
				if err := bookingRepo.Create(booking); err != nil && !errors.Is(err, persistent.ErrAlreadyBooked) {
					log.Error("Failed to book %s for %s: %v", event.Title, attendeeID, err)
				}
			}
		}
	}

	log.Info("Created test events and bookings")
	return nil
}
