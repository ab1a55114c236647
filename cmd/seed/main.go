package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/cicine00/7ouma/internal/config"
	"github.com/cicine00/7ouma/internal/database"
	"github.com/cicine00/7ouma/internal/domain"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM wallet_transactions")
	db.Exec("DELETE FROM provider_wallets")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM booking_photos")
	db.Exec("DELETE FROM booking_quotes")
	db.Exec("DELETE FROM booking_requests")
	db.Exec("DELETE FROM offer_images")
	db.Exec("DELETE FROM service_offers")
	db.Exec("DELETE FROM price_references")
	db.Exec("DELETE FROM categories")
	db.Exec("DELETE FROM users")

	// ================== CATEGORIES ==================
	log.Println("Creating categories...")

	categories := []domain.Category{
		{Name: "Plomberie", NameAr: "السباكة", Icon: "wrench", Slug: "plomberie", IsActive: true},
		{Name: "Électricité", NameAr: "الكهرباء", Icon: "zap", Slug: "electricite", IsActive: true},
		{Name: "Peinture", NameAr: "الصباغة", Icon: "paintbrush", Slug: "peinture", IsActive: true},
		{Name: "Ménage", NameAr: "التنظيف", Icon: "sparkles", Slug: "menage", IsActive: true},
		{Name: "Climatisation", NameAr: "التكييف", Icon: "wind", Slug: "climatisation", IsActive: true},
	}
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			log.Fatal("seed category failed:", err)
		}
	}

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@7ouma.ma",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Administrateur",
		City:         "Casablanca",
		IsVerified:   true,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@7ouma.ma / admin123")

	clientNames := []string{"Fatima Zahra", "Youssef Alami", "Khadija Bennani"}
	clientEmails := []string{"fatima@gmail.com", "youssef@gmail.com", "khadija@gmail.com"}
	clients := []domain.User{}
	for i, email := range clientEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
		client := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleClient,
			Name:         clientNames[i],
			Phone:        fmt.Sprintf("+2126000000%02d", i+1),
			City:         "Casablanca",
			Quarter:      "Maarif",
			IsVerified:   true,
		}
		db.Create(&client)
		clients = append(clients, client)
	}

	providerNames := []string{"Hassan El Fassi", "Abdelkader Ziani", "Rachid Amrani"}
	providerQuarters := []string{"Derb Sultan", "Hay Mohammadi", "Sidi Moumen"}
	providers := []domain.User{}
	for i, name := range providerNames {
		hash, _ := bcrypt.GenerateFromPassword([]byte("provider123"), bcrypt.DefaultCost)
		categoryID := categories[i%len(categories)].ID
		provider := domain.User{
			Email:        fmt.Sprintf("provider%d@7ouma.ma", i+1),
			PasswordHash: string(hash),
			Role:         domain.RoleProvider,
			Name:         name,
			Phone:        fmt.Sprintf("+2126100000%02d", i+1),
			City:         "Casablanca",
			Quarter:      providerQuarters[i],
			CategoryID:   &categoryID,
			IsVerified:   true,
		}
		db.Create(&provider)
		providers = append(providers, provider)
	}

	// ================== OFFERS ==================
	log.Println("Creating service offers...")

	offerTitles := []string{
		"Dépannage plomberie 7j/7",
		"Installation électrique aux normes",
		"Peinture intérieure et extérieure",
	}
	// Rough positions around Casablanca center.
	lats := []float64{33.5731, 33.5892, 33.5620}
	lngs := []float64{-7.5898, -7.6031, -7.6114}
	for i, p := range providers {
		offer := domain.ServiceOffer{
			ProviderID:         p.ID,
			CategoryID:         *p.CategoryID,
			Title:              offerTitles[i],
			Description:        "Intervention rapide dans tout Casablanca. Devis gratuit.",
			BasePrice:          float64(100 + 50*i),
			MaxPrice:           float64(400 + 100*i),
			City:               "Casablanca",
			Quarter:            p.Quarter,
			Latitude:           lats[i],
			Longitude:          lngs[i],
			RadiusKm:           10,
			IsAvailable:        true,
			IsUrgencyAvailable: i%2 == 0,
		}
		db.Create(&offer)
	}

	// ================== PRICE REFERENCES ==================
	log.Println("Creating price references...")

	refs := []domain.PriceReference{
		{CategoryID: categories[0].ID, ServiceType: "Réparation fuite d'eau", MinPrice: 100, MaxPrice: 400, AveragePrice: 220, City: "Casablanca"},
		{CategoryID: categories[0].ID, ServiceType: "Débouchage canalisation", MinPrice: 150, MaxPrice: 500, AveragePrice: 300, City: "Casablanca"},
		{CategoryID: categories[1].ID, ServiceType: "Remplacement tableau électrique", MinPrice: 300, MaxPrice: 1200, AveragePrice: 650, City: "Casablanca"},
		{CategoryID: categories[2].ID, ServiceType: "Peinture chambre", MinPrice: 500, MaxPrice: 2000, AveragePrice: 1100, City: "Casablanca"},
		{CategoryID: categories[3].ID, ServiceType: "Grand ménage appartement", MinPrice: 200, MaxPrice: 800, AveragePrice: 400, City: "Casablanca"},
	}
	for i := range refs {
		db.Create(&refs[i])
	}

	// ================== SAMPLE BOOKING ==================
	log.Println("Creating sample booking request...")

	booking := domain.BookingRequest{
		ClientID:        clients[0].ID,
		CategoryID:      categories[0].ID,
		Title:           "Fuite d'eau sous l'évier de la cuisine",
		Description:     "L'eau coule en continu, besoin d'une intervention rapide.",
		ClientLatitude:  33.5731,
		ClientLongitude: -7.5898,
		ClientAddress:   "12 Rue Al Moutanabbi",
		ClientQuarter:   "Maarif",
		IsUrgent:        true,
		Status:          domain.BookingPending,
	}
	db.Create(&booking)

	quote := domain.BookingQuote{
		BookingRequestID:        booking.ID,
		ProviderID:              providers[0].ID,
		ProviderName:            providers[0].Name,
		ProposedPrice:           250,
		Note:                    "Je peux passer dans l'heure.",
		EstimatedArrivalMinutes: 45,
	}
	db.Create(&quote)

	log.Println("Seed complete.")
	log.Println("Clients: fatima@gmail.com / client123")
	log.Println("Providers: provider1@7ouma.ma / provider123")
}
