package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	amqp "github.com/rabbitmq/amqp091-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"shared-itinerary-service/internal/adapters/cache"
	"shared-itinerary-service/internal/adapters/notify"
	"shared-itinerary-service/internal/adapters/optimizer"
	"shared-itinerary-service/internal/adapters/repositories"
	"shared-itinerary-service/internal/api"
	"shared-itinerary-service/internal/config"
	"shared-itinerary-service/internal/platform/db"
	"shared-itinerary-service/internal/ports"
	"shared-itinerary-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS, RabbitMQ) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	port := config.Get("PORT", "8080")
	redisAddr := config.Get("REDIS_ADDR", "localhost:6379")
	optimizerURL := config.Get("OPTIMIZER_URL", "")
	amqpURL := config.Get("AMQP_URL", "")
	maxDetour := config.GetFloat("MAX_DETOUR_PERCENT", 0.3)
	maxParallel := config.GetInt("MATCH_MAX_PARALLEL", services.DefaultMaxParallel)

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	ors, err := optimizer.NewORSOptimizer(orsKey, optimizerURL)
	if err != nil {
		log.Fatal(err)
	}

	// Working copies expire if the booking flow never commits them; vehicle
	// fixes expire so stale vehicles show up as untrackable.
	workingCopies := cache.NewRedisWorkingCopyStore(rdb, 30*time.Minute)
	tracker := cache.NewRedisVehicleTracker(rdb, 2*time.Minute)

	var notifier ports.DriverNotifier = notify.LogDriverNotifier{}
	if amqpURL != "" {
		conn, err := amqp.Dial(amqpURL)
		if err != nil {
			log.Fatalf("connect rabbitmq: %v", err)
		}
		defer conn.Close()

		amqpNotifier, err := notify.NewAMQPDriverNotifier(conn)
		if err != nil {
			log.Fatal(err)
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	} else {
		log.Println("AMQP_URL not set, driver notifications are log-only")
	}

	itineraries := repositories.NewPgItineraryRepository(pg)
	trips := repositories.NewPgTripRepository(pg)
	vehicles := repositories.NewPgVehicleGateway(pg)

	matcher := &services.Matcher{
		Itineraries:      itineraries,
		Trips:            trips,
		Tracking:         tracker,
		Vehicles:         vehicles,
		Optimizer:        ors,
		WorkingCopies:    workingCopies,
		MaxDetourPercent: maxDetour,
		MaxParallel:      maxParallel,
	}

	lifecycle := &services.Lifecycle{
		Itineraries:   itineraries,
		Trips:         trips,
		WorkingCopies: workingCopies,
		Notifier:      notifier,
	}

	router := api.NewRouter(matcher, lifecycle, tracker)

	// Timeouts are tuned for matching passes that fan out to the external
	// optimizer (one call per candidate itinerary).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
