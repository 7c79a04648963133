package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	_ "github.com/DivinerX/fuelrouterx/docs"
	"github.com/DivinerX/fuelrouterx/pkg/fuel"
	"github.com/DivinerX/fuelrouterx/pkg/geocoder"
	"github.com/DivinerX/fuelrouterx/pkg/kv"
	"github.com/DivinerX/fuelrouterx/pkg/routing"
	"github.com/DivinerX/fuelrouterx/pkg/server/rest"
	"github.com/DivinerX/fuelrouterx/pkg/server/rest/service"
	"github.com/DivinerX/fuelrouterx/pkg/station"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	mymiddleware "github.com/DivinerX/fuelrouterx/pkg/server/middleware"
)

var (
	listenAddr     = flag.String("listenaddr", ":8000", "server listen address")
	stationDBDir   = flag.String("stationdb", "./fuelrouterx-stations", "badger directory holding the indexed stations")
	geocodeCache   = flag.String("geocodecache", "./fuelrouterx-geocache", "pebble directory for the geocoding cache")
	tankCapacity   = flag.Float64("tank", 50, "vehicle fuel tank capacity in gallons")
	milesPerGallon = flag.Float64("mpg", 10, "vehicle fuel economy in miles per gallon")
	useRateLimit   = flag.Bool("ratelimit", false, "use rate limit")
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

//	@title			fuelrouterx API
//	@version		1.0
//	@description	fuel route optimization api in go

//	@description 	plans driving routes across the US and schedules cost-optimal fuel stops along them

// @host		localhost:8000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(*stationDBDir))
	if err != nil {
		log.Fatal(err)
	}
	stationDB := kv.NewStationDB(db)
	defer stationDB.Close()

	stations, err := stationDB.AllStations()
	if err != nil {
		log.Fatalf("could not load stations, run cmd/loadstations first: %v", err)
	}
	catalog := station.NewCatalog(stations)
	log.Printf("loaded %d stations into the catalog", catalog.Len())

	cache, err := geocoder.OpenCache(*geocodeCache)
	if err != nil {
		log.Fatal(err)
	}
	defer cache.Close()

	geocodeClient := geocoder.NewClient(geocoder.DefaultBaseURL,
		getEnv("NOMINATIM_USER_AGENT", "fuelrouterx/1.0"), cache)

	var router service.Router
	if apiKey := getEnv("ORS_API_KEY", ""); apiKey != "" {
		router = routing.NewORSClient(routing.DefaultBaseURL, apiKey)
	} else {
		log.Println("ORS_API_KEY not set, falling back to straight line routing")
		router = routing.NewStraightLineRouter()
	}

	planner, err := fuel.NewPlanner(*tankCapacity, *milesPerGallon, fuel.WithTracer(fuel.LogTracer{}))
	if err != nil {
		log.Fatal(err)
	}

	tripSvc := service.NewTripService(geocodeClient, router, catalog, planner)

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if *useRateLimit {
		r.Use(mymiddleware.Limit)
	}

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8000/swagger/doc.json"), //The url pointing to API definition
	))

	rest.TripRouter(r, tripSvc)

	fmt.Printf("\nserver started at %s\n", *listenAddr)

	log.Fatal(http.ListenAndServe(*listenAddr, r))
}
