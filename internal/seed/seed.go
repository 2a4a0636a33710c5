// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"descubre/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumReviews  int
	ShouldClean bool
}

// builtinPlaces is the starter catalog loaded on boot so a fresh environment
// has something to browse and review.
var builtinPlaces = []models.Place{
	{Name: "Café de la Plaza", Category: "cafe", Address: "Plaza Mayor 3, Madrid", Latitude: 40.4155, Longitude: -3.7074, Description: "Café tradicional con terraza en plena Plaza Mayor."},
	{Name: "Taquería El Güero", Category: "restaurant", Address: "Av. Insurgentes Sur 1457, CDMX", Latitude: 19.3727, Longitude: -99.1793, Description: "Tacos al pastor con la receta de siempre."},
	{Name: "Parque del Retiro", Category: "park", Address: "Plaza de la Independencia 7, Madrid", Latitude: 40.4153, Longitude: -3.6845, Description: "El pulmón verde del centro de Madrid."},
	{Name: "La Boquería", Category: "market", Address: "La Rambla 91, Barcelona", Latitude: 41.3817, Longitude: 2.1716, Description: "Mercado histórico con productos frescos y tapas."},
	{Name: "Museo Frida Kahlo", Category: "museum", Address: "Londres 247, Coyoacán, CDMX", Latitude: 19.3551, Longitude: -99.1626, Description: "La Casa Azul, vida y obra de Frida Kahlo."},
	{Name: "Cervecería Los Andes", Category: "bar", Address: "Av. Providencia 2124, Santiago", Latitude: -33.4263, Longitude: -70.6100, Description: "Cervezas artesanales y tablas para compartir."},
	{Name: "Playa del Carmen Centro", Category: "beach", Address: "Quinta Avenida, Playa del Carmen", Latitude: 20.6296, Longitude: -87.0739, Description: "Arena blanca a pasos de la Quinta Avenida."},
	{Name: "Librería El Ateneo", Category: "shop", Address: "Av. Santa Fe 1860, Buenos Aires", Latitude: -34.5957, Longitude: -58.3936, Description: "Librería en un antiguo teatro, una de las más bellas del mundo."},
}

// Places inserts the built-in place catalog, skipping entries that already
// exist. Safe to run on every boot.
func Places(db *gorm.DB) error {
	for i := range builtinPlaces {
		p := builtinPlaces[i]
		var existing models.Place
		err := db.Where("name = ?", p.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("look up builtin place %q: %w", p.Name, err)
		}
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("create builtin place %q: %w", p.Name, err)
		}
	}
	return nil
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d reviews...", opts.NumUsers, opts.NumReviews)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if err := Places(db); err != nil {
		return fmt.Errorf("failed to seed builtin places: %w", err)
	}

	f := NewFactory(db)

	users, err := f.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	var places []models.Place
	if err := db.Find(&places).Error; err != nil {
		return fmt.Errorf("failed to load places: %w", err)
	}

	reviews, err := f.CreateReviews(users, places, opts.NumReviews)
	if err != nil {
		return fmt.Errorf("failed to create reviews: %w", err)
	}
	log.Printf("✓ %d reviews created", len(reviews))

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE point_logs, appeals, moderation_records, reports, reviews, places, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
