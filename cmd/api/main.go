package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/cicine00/7ouma/internal/config"
	"github.com/cicine00/7ouma/internal/database"
	"github.com/cicine00/7ouma/internal/middleware"
	"github.com/cicine00/7ouma/internal/modules/auth"
	"github.com/cicine00/7ouma/internal/modules/booking"
	"github.com/cicine00/7ouma/internal/modules/catalog"
	"github.com/cicine00/7ouma/internal/modules/payment"
	"github.com/cicine00/7ouma/internal/modules/tracking"
	jwtsvc "github.com/cicine00/7ouma/internal/pkg/jwt"
	"github.com/cicine00/7ouma/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	offerRepo := repository.NewOfferRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	trackingHub := tracking.NewHub()
	trackingWS := tracking.NewWSHandler(trackingHub, j)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(bookingRepo, userRepo, trackingHub)
	bookingHandler := booking.NewHandler(bookingService)

	catalogService := catalog.NewService(offerRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	paymentService := payment.NewService(db, cfg.CommissionRate)
	paymentHandler := payment.NewHandler(paymentService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
		}
	}

	r.GET("/ws/tracking", trackingWS.HandleWebSocket)

	log.Printf("listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
