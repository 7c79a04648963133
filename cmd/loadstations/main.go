package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/geocoder"
	"github.com/DivinerX/fuelrouterx/pkg/kv"
	"github.com/DivinerX/fuelrouterx/pkg/station"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

var (
	csvFile       = flag.String("csv", "fuel-prices-for-be-assessment.csv", "OPIS fuel price csv file")
	mapFile       = flag.String("pbf", "", "openstreetmap pbf file to import fuel stations from instead of the csv")
	stationDBDir  = flag.String("stationdb", "./fuelrouterx-stations", "badger directory for the indexed stations")
	geocodeCache  = flag.String("geocodecache", "./fuelrouterx-geocache", "pebble directory for the geocoding cache")
	limit         = flag.Int("limit", 0, "only load the first N csv rows, 0 loads everything")
	skipGeocoding = flag.Bool("skip-geocoding", false, "keep rows without coordinates instead of geocoding them")
	defaultPrice  = flag.Float64("default-price", station.DefaultPricePerGallon, "price per gallon for pbf imported stations")

	// nominatim usage policy caps anonymous clients at one request per second
	geocodeDelay = time.Second
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func main() {
	flag.Parse()
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		records []station.Record
		err     error
	)
	if *mapFile != "" {
		records, err = station.ImportFuelStationsPBF(ctx, *mapFile, *defaultPrice)
	} else {
		records, err = station.LoadCSVFile(*csvFile, *limit)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %d station records", len(records))

	if !*skipGeocoding {
		records = geocodeRecords(ctx, records)
	}

	stations := make([]datastructure.FuelStation, 0, len(records))
	for _, rec := range records {
		if !rec.HasCoordinates() {
			continue
		}
		stations = append(stations, rec.ToFuelStation())
	}
	log.Printf("%d of %d stations carry coordinates", len(stations), len(records))

	db, err := badger.Open(badger.DefaultOptions(*stationDBDir))
	if err != nil {
		log.Fatal(err)
	}
	stationDB := kv.NewStationDB(db)
	defer stationDB.Close()

	if err := stationDB.BuildH3IndexedStations(ctx, stations); err != nil {
		log.Fatal(err)
	}
	log.Printf("indexed %d stations in %s", len(stations), *stationDBDir)

	// read the index back around the first station so a broken build fails
	// here instead of at server startup
	if len(stations) > 0 {
		sample := stations[0]
		nearby, err := stationDB.GetNearestStationsFromPointCoord(sample.Lat, sample.Lon)
		if err != nil {
			log.Fatalf("index readback failed: %v", err)
		}
		within, err := stationDB.StationsWithinRadius(sample.Lat, sample.Lon, 50)
		if err != nil {
			log.Fatalf("index readback failed: %v", err)
		}
		log.Printf("index check near %q: %d stations in the home cells, %d within 50 km",
			sample.Name, len(nearby), len(within))
	}
}

// geocodeRecords fills coordinates for the rows that lack them, one
// nominatim request per second. Rows that cannot be geocoded are kept, the
// caller drops them before indexing.
func geocodeRecords(ctx context.Context, records []station.Record) []station.Record {
	cache, err := geocoder.OpenCache(*geocodeCache)
	if err != nil {
		log.Fatal(err)
	}
	defer cache.Close()

	client := geocoder.NewClient(geocoder.DefaultBaseURL,
		getEnv("NOMINATIM_USER_AGENT", "fuelrouterx/1.0"), cache)

	geocoded := 0
	failed := 0
	for i := range records {
		if records[i].HasCoordinates() {
			continue
		}
		if ctx.Err() != nil {
			log.Printf("interrupted after %d geocodes", geocoded)
			break
		}

		rec := &records[i]
		res, err := client.GeocodeStation(ctx, rec.Name, rec.Address, rec.City, rec.State)
		if err != nil {
			if !errors.Is(err, geocoder.ErrNoResults) {
				log.Printf("geocoding %q failed: %v", rec.Name, err)
			}
			failed++
		} else {
			rec.Lat = res.Lat
			rec.Lon = res.Lon
			geocoded++
		}

		if geocoded%100 == 0 && geocoded > 0 {
			log.Printf("geocoded %d stations so far, %d failed", geocoded, failed)
		}
		time.Sleep(geocodeDelay)
	}
	log.Printf("geocoding done: %d resolved, %d failed", geocoded, failed)
	return records
}
