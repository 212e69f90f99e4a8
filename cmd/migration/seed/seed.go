package seed

import (
	"time"

	"github.com/JimLiu0/provider-dashboard/config"
	"github.com/JimLiu0/provider-dashboard/internal/logger"
	. "github.com/JimLiu0/provider-dashboard/internal/models"

	"gorm.io/gorm"
)

func daysAgo(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

// Seed inserts sample patients for local development. Patients that already
// exist, matched on first and last name, are skipped.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) (int, error) {
	log = log.Function("Seed")

	if config.IsProduction() {
		log.Warn("Refusing to seed a production database")
		return 0, nil
	}

	log.Info("Seeding development data")
	now := time.Now().UTC()

	patients := []Patient{
		{
			FirstName:     "Ada",
			LastName:      "Lovelace",
			DateOfBirth:   "1985-12-10",
			Status:        StatusActive,
			StreetAddress: "12 Byron Ave",
			City:          "Austin",
			State:         "Texas",
			ZipCode:       "78701",
			Notes:         "Prefers morning appointments",
		},
		{
			FirstName:     "Émile",
			MiddleName:    "Paul",
			LastName:      "Durand",
			DateOfBirth:   "1972-03-04",
			Status:        StatusOnboarding,
			StreetAddress: "48 Rue Lane",
			City:          "New Orleans",
			State:         "Louisiana",
			ZipCode:       "70112",
		},
		{
			FirstName:     "Grace",
			LastName:      "hopper",
			DateOfBirth:   "1956-12-09",
			Status:        StatusInquiry,
			StreetAddress: "9 Navy Yard Rd",
			City:          "Arlington",
			State:         "Virginia",
			ZipCode:       "22202",
			Notes:         "Referred by Dr. Ramirez",
		},
		{
			FirstName:     "Linus",
			LastName:      "Okafor",
			DateOfBirth:   "2001-07-21",
			Status:        StatusChurned,
			StreetAddress: "300 Pine St",
			City:          "Seattle",
			State:         "Washington",
			ZipCode:       "98101",
		},
		{
			FirstName:     "Maya",
			LastName:      "Chen",
			DateOfBirth:   "1990-05-17",
			Status:        StatusActive,
			StreetAddress: "77 Harbor Blvd",
			City:          "Portland",
			State:         "Maine",
			ZipCode:       "04101",
		},
	}

	created := 0
	for i, patient := range patients {
		var count int64
		err := db.Model(&Patient{}).
			Where("first_name = ? AND last_name = ?", patient.FirstName, patient.LastName).
			Count(&count).Error
		if err != nil {
			return created, log.Err("failed to look up patient", err, "lastName", patient.LastName)
		}
		if count > 0 {
			log.Info("Patient already exists", "firstName", patient.FirstName, "lastName", patient.LastName)
			continue
		}

		patient.CreatedAt = daysAgo(now, (len(patients)-i)*7)
		log.Info("Seeding patient", "firstName", patient.FirstName, "lastName", patient.LastName)
		if err := db.Create(&patient).Error; err != nil {
			log.Er("failed to create patient", err, "lastName", patient.LastName)
			continue
		}
		created++
	}

	return created, nil
}
