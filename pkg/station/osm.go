package station

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// ImportFuelStationsPBF scans an OpenStreetMap extract for amenity=fuel
// nodes and converts them into catalog records. OpenStreetMap does not
// carry fuel prices, so every imported record gets defaultPrice.
func ImportFuelStationsPBF(ctx context.Context, mapFile string, defaultPrice float64) ([]Record, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, fmt.Errorf("open osm extract: %w", err)
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, 0)
	defer scanner.Close()

	records := make([]Record, 0)
	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()

		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		node := o.(*osm.Node)

		if (countNodes+1)%500000 == 0 {
			log.Printf("reading openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++

		if node.Tags.Find("amenity") != "fuel" {
			continue
		}

		name := node.Tags.Find("name")
		if name == "" {
			name = node.Tags.Find("brand")
		}
		if name == "" {
			name = "fuel station"
		}

		rec := Record{
			OpisID:         int64(node.ID),
			Name:           name,
			Address:        node.Tags.Find("addr:street"),
			City:           node.Tags.Find("addr:city"),
			State:          node.Tags.Find("addr:state"),
			RackID:         int64(node.ID),
			PricePerGallon: defaultPrice,
			Lat:            node.Lat,
			Lon:            node.Lon,
		}
		if err := rec.Normalize(); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm extract: %w", err)
	}

	log.Printf("imported %d fuel stations from %s", len(records), strings.TrimSpace(mapFile))
	return records, nil
}
